package marketplaceserver

import (
	"time"

	notificationmapper "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/adapters/http/mapper"
	sessionsdomain "github.com/Apurer/go-gin-marketplace/internal/domains/sessions/domain"
)

// OpenSessionRequest - both identifiers are optional; blank ones are generated.
type OpenSessionRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	DeviceID  string `json:"deviceId,omitempty"`
}

type Session struct {
	SessionID string    `json:"sessionId"`
	DeviceID  string    `json:"deviceId"`
	OpenedAt  time.Time `json:"openedAt"`
}

func fromDomainSession(s sessionsdomain.Session) Session {
	return Session{SessionID: s.ID, DeviceID: s.DeviceID, OpenedAt: s.OpenedAt}
}

// CartTotals - values are integer currency units.
type CartTotals struct {
	ShippingFee *int64 `json:"shippingFee" binding:"required"`
	TotalAmount *int64 `json:"totalAmount" binding:"required"`
}

type NotificationList struct {
	Notifications []notificationmapper.Notification `json:"notifications"`
	UnreadCount   int                               `json:"unreadCount"`
}
