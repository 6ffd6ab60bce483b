package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// MaxIDLength bounds session and device identifiers; device IDs double as
// storage namespaces.
const MaxIDLength = 128

var (
	ErrInvalidSessionID = errors.New("session id must be 1-128 printable characters without spaces or slashes")
	ErrInvalidDeviceID  = errors.New("device id must be 1-128 printable characters without spaces or slashes")
)

// Session is one client session (a browser tab). Sessions on the same device
// share durable storage; everything else is private to the session.
type Session struct {
	ID       string
	DeviceID string
	OpenedAt time.Time
}

// NewSession validates identifiers and builds a session.
func NewSession(id, deviceID string, openedAt time.Time) (*Session, error) {
	id = strings.TrimSpace(id)
	deviceID = strings.TrimSpace(deviceID)
	if !validID(id) {
		return nil, ErrInvalidSessionID
	}
	if !validID(deviceID) {
		return nil, ErrInvalidDeviceID
	}
	return &Session{ID: id, DeviceID: deviceID, OpenedAt: openedAt}, nil
}

func validID(id string) bool {
	if id == "" || len(id) > MaxIDLength {
		return false
	}
	for _, r := range id {
		if r == '/' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
