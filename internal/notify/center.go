// Package notify holds the in-app notification center. State changes are
// broadcast to subscribers as Change messages.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the severity of a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notification is one entry in the center.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Action    string    `json:"action,omitempty"` // optional action label
	Target    string    `json:"target,omitempty"` // e.g. a file the action opens
}

// ChangeType identifies what happened to the center.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRead    ChangeType = "read"
	ChangeAllRead ChangeType = "all_read"
	ChangeRemoved ChangeType = "removed"
	ChangeCleared ChangeType = "cleared"
)

// Change is broadcast to subscribers after every mutation.
type Change struct {
	Type         ChangeType    `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
	Unread       int           `json:"unread"`
}

// DefaultLimit bounds the retained history.
const DefaultLimit = 100

// Center stores notifications newest first.
type Center struct {
	mu     sync.Mutex
	items  []Notification
	limit  int
	now    func() time.Time
	nextID int
	subs   map[int]chan Change
}

// Option configures a Center.
type Option func(*Center)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// WithLimit caps the number of retained notifications.
func WithLimit(n int) Option {
	return func(c *Center) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewCenter returns an empty center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		limit: DefaultLimit,
		now:   time.Now,
		subs:  make(map[int]chan Change),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Seed adds the welcome notifications shown on first launch.
func (c *Center) Seed() {
	now := c.now()
	seed := []Notification{
		{
			Title:     "Welcome to ADmyBRAND Analytics",
			Message:   "Your dashboard is ready! Start exploring your campaign performance data.",
			Kind:      KindInfo,
			Timestamp: now.Add(-2 * time.Hour),
		},
		{
			Title:     "New Campaign Performance Alert",
			Message:   "Summer Sale Campaign has exceeded its daily budget by 15%. Consider adjusting your bid strategy.",
			Kind:      KindWarning,
			Timestamp: now.Add(-1 * time.Hour),
		},
		{
			Title:     "Weekly Report Available",
			Message:   "Your weekly performance summary is ready. Download the report to review your campaign insights.",
			Kind:      KindSuccess,
			Timestamp: now.Add(-30 * time.Minute),
		},
	}
	c.mu.Lock()
	for _, n := range seed {
		n.ID = uuid.NewString()
		c.items = append([]Notification{n}, c.items...)
	}
	c.trimLocked()
	c.mu.Unlock()
}

// Add stores n as unread with a fresh ID and timestamp, and returns it.
func (c *Center) Add(n Notification) Notification {
	n.ID = uuid.NewString()
	n.Timestamp = c.now()
	n.Read = false

	c.mu.Lock()
	c.items = append([]Notification{n}, c.items...)
	c.trimLocked()
	unread := c.unreadLocked()
	c.mu.Unlock()

	c.broadcast(Change{Type: ChangeAdded, Notification: &n, Unread: unread})
	return n
}

// MarkRead marks one notification read. It reports whether the ID exists.
func (c *Center) MarkRead(id string) bool {
	c.mu.Lock()
	var found *Notification
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			n := c.items[i]
			found = &n
			break
		}
	}
	unread := c.unreadLocked()
	c.mu.Unlock()

	if found == nil {
		return false
	}
	c.broadcast(Change{Type: ChangeRead, Notification: found, Unread: unread})
	return true
}

// MarkAllRead marks every notification read.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	for i := range c.items {
		c.items[i].Read = true
	}
	c.mu.Unlock()
	c.broadcast(Change{Type: ChangeAllRead})
}

// Remove deletes one notification. It reports whether the ID existed.
func (c *Center) Remove(id string) bool {
	c.mu.Lock()
	var removed *Notification
	for i := range c.items {
		if c.items[i].ID == id {
			n := c.items[i]
			removed = &n
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	unread := c.unreadLocked()
	c.mu.Unlock()

	if removed == nil {
		return false
	}
	c.broadcast(Change{Type: ChangeRemoved, Notification: removed, Unread: unread})
	return true
}

// Clear removes everything.
func (c *Center) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	c.broadcast(Change{Type: ChangeCleared})
}

// List returns a copy of the notifications, newest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount returns the number of unread notifications.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unreadLocked()
}

// Subscribe returns a channel of changes and a function that cancels the
// subscription. Slow subscribers miss changes rather than block writers.
func (c *Center) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Change, buffer)

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Center) broadcast(ch Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch.Type == ChangeAllRead || ch.Type == ChangeCleared {
		ch.Unread = c.unreadLocked()
	}
	for _, sub := range c.subs {
		select {
		case sub <- ch:
		default:
		}
	}
}

func (c *Center) unreadLocked() int {
	n := 0
	for _, item := range c.items {
		if !item.Read {
			n++
		}
	}
	return n
}

func (c *Center) trimLocked() {
	if len(c.items) > c.limit {
		c.items = c.items[:c.limit]
	}
}
