package notify

import (
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestSeedAddsThreeUnread(t *testing.T) {
	c := NewCenter(WithClock(fixedClock()))
	c.Seed()
	list := c.List()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].Title != "Weekly Report Available" {
		t.Fatalf("newest = %q, want the weekly report", list[0].Title)
	}
	if got := c.UnreadCount(); got != 3 {
		t.Fatalf("UnreadCount = %d, want 3", got)
	}
}

func TestAddMarkRemove(t *testing.T) {
	c := NewCenter(WithClock(fixedClock()))
	a := c.Add(Notification{Title: "a", Kind: KindInfo})
	b := c.Add(Notification{Title: "b", Kind: KindSuccess, Read: true})

	if b.Read {
		t.Fatal("Add should store notifications unread")
	}
	if c.List()[0].ID != b.ID {
		t.Fatal("newest notification should be first")
	}
	if !c.MarkRead(a.ID) {
		t.Fatal("MarkRead returned false for known ID")
	}
	if c.MarkRead("missing") {
		t.Fatal("MarkRead returned true for unknown ID")
	}
	if got := c.UnreadCount(); got != 1 {
		t.Fatalf("UnreadCount = %d, want 1", got)
	}
	if !c.Remove(b.ID) || c.Remove(b.ID) {
		t.Fatal("Remove should succeed exactly once")
	}
	c.MarkAllRead()
	if got := c.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount = %d, want 0", got)
	}
	c.Clear()
	if len(c.List()) != 0 {
		t.Fatal("Clear left notifications")
	}
}

func TestLimitDropsOldest(t *testing.T) {
	c := NewCenter(WithLimit(2))
	c.Add(Notification{Title: "1"})
	c.Add(Notification{Title: "2"})
	c.Add(Notification{Title: "3"})
	list := c.List()
	if len(list) != 2 || list[1].Title != "2" {
		t.Fatalf("list = %+v", list)
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	c := NewCenter()
	ch, cancel := c.Subscribe(4)
	n := c.Add(Notification{Title: "export done", Kind: KindSuccess})
	c.MarkRead(n.ID)

	got := <-ch
	if got.Type != ChangeAdded || got.Notification.ID != n.ID || got.Unread != 1 {
		t.Fatalf("first change = %+v", got)
	}
	got = <-ch
	if got.Type != ChangeRead || got.Unread != 0 {
		t.Fatalf("second change = %+v", got)
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after cancel")
	}
	c.Add(Notification{Title: "after cancel"}) // must not panic
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	c := NewCenter()
	_, cancel := c.Subscribe(1)
	defer cancel()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			c.Add(Notification{Title: "x"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Add blocked on a full subscriber")
	}
}
