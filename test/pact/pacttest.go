//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "marketplace-state-api"
	ConsumerName = "storefront"

	StateNoSessions     = "no sessions are open"
	StateEmptyCart      = "session pact-tab is open with an empty cart"
	StateViewedProducts = "session pact-tab has viewed products"
	StateUnreadMessages = "session pact-tab has unread notifications"
	StateUnknownSession = "session ghost-tab is not open"
)

const (
	SessionID              = "pact-tab"
	DeviceID               = "pact-device"
	UnknownSessionID       = "ghost-tab"
	UnreadID         int64 = 41
)

// ExampleProductPayload provides stable product data for cart interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":    "rod-42",
		"title": "Carbon Fishing Rod",
		"price": 3000,
		"image": "https://example.pact/products/rod-42.png",
	}
}

// ExampleEntryPayload provides a stable recently viewed product.
func ExampleEntryPayload() map[string]any {
	return map[string]any{
		"id":         "reel-7",
		"title":      "Spinning Reel",
		"price":      4500,
		"imageUrl":   "https://example.pact/products/reel-7.png",
		"productUrl": "/products/reel-7",
	}
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
