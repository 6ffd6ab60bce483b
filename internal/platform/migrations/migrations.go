package migrations

import (
	"gorm.io/gorm"

	storagepostgres "github.com/Apurer/go-gin-marketplace/internal/platform/storage/postgres"
)

// Run applies the schema for durable device storage. Backends do not automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&storagepostgres.ItemRecord{})
}
