package domain

// Notification is a transient UI event record. IDs are assigned by the caller;
// uniqueness is expected but not enforced.
type Notification struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Time    string `json:"time"`
	Unread  bool   `json:"unread"`
	Icon    string `json:"icon"`
}

// List is an ordered notification list, newest first.
type List []Notification

// Clone returns a copy that shares nothing with l; never nil.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Prepend returns a new list with n at index 0.
func (l List) Prepend(n Notification) List {
	out := make(List, 0, len(l)+1)
	out = append(out, n)
	return append(out, l...)
}

// MarkRead clears the unread flag on entries matching id. With unique IDs that
// is a single entry.
func (l List) MarkRead(id int64) List {
	out := l.Clone()
	for i := range out {
		if out[i].ID == id {
			out[i].Unread = false
		}
	}
	return out
}

// MarkAllRead clears the unread flag on every entry.
func (l List) MarkAllRead() List {
	out := l.Clone()
	for i := range out {
		out[i].Unread = false
	}
	return out
}

// UnreadCount counts entries still flagged unread.
func (l List) UnreadCount() int {
	n := 0
	for _, item := range l {
		if item.Unread {
			n++
		}
	}
	return n
}
