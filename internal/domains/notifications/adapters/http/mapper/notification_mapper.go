package mapper

import (
	notificationdomain "github.com/Apurer/go-gin-marketplace/internal/domains/notifications/domain"
)

// Notification is the transport shape of one notification.
type Notification struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Time    string `json:"time"`
	Unread  bool   `json:"unread"`
	Icon    string `json:"icon,omitempty"`
}

func ToDomainNotification(n Notification) notificationdomain.Notification {
	return notificationdomain.Notification{
		ID:      n.ID,
		Type:    n.Type,
		Title:   n.Title,
		Content: n.Content,
		Time:    n.Time,
		Unread:  n.Unread,
		Icon:    n.Icon,
	}
}

func ToDomainNotifications(list []Notification) []notificationdomain.Notification {
	out := make([]notificationdomain.Notification, 0, len(list))
	for _, n := range list {
		out = append(out, ToDomainNotification(n))
	}
	return out
}

func FromDomainNotifications(list []notificationdomain.Notification) []Notification {
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		out = append(out, Notification{
			ID:      n.ID,
			Type:    n.Type,
			Title:   n.Title,
			Content: n.Content,
			Time:    n.Time,
			Unread:  n.Unread,
			Icon:    n.Icon,
		})
	}
	return out
}
