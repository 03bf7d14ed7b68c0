package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultNotificationTTL is how long a notification stays visible
const DefaultNotificationTTL = 5 * time.Second

// Notification is a short message shown to the user
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifications is an ordered list whose entries remove themselves after ttl
type Notifications struct {
	mu     sync.Mutex
	ttl    time.Duration
	items  []Notification
	timers map[uuid.UUID]*time.Timer
	closed bool
}

func newNotifications(ttl time.Duration) *Notifications {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifications{
		ttl:    ttl,
		timers: make(map[uuid.UUID]*time.Timer),
	}
}

// Push appends a notification and schedules its removal. Pushing onto a
// closed list is a no-op.
func (n *Notifications) Push(text string) (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return Notification{}, false
	}

	item := Notification{ID: uuid.New(), Text: text, CreatedAt: time.Now().UTC()}
	n.items = append(n.items, item)
	n.timers[item.ID] = time.AfterFunc(n.ttl, func() { n.Remove(item.ID) })
	return item, true
}

// Remove drops a notification before its timer fires
func (n *Notifications) Remove(id uuid.UUID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the live notifications in insertion order
func (n *Notifications) List() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.items...)
}

// Len returns the number of live notifications
func (n *Notifications) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}

// Close stops every pending timer and rejects further pushes
func (n *Notifications) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
	n.items = nil
	n.closed = true
}
