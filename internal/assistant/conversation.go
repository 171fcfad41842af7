package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one chat entry.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Delays simulate processing time. Zero values skip the wait.
type Delays struct {
	Thinking time.Duration // before a quick-action reply starts typing
	Typing   time.Duration // typing indicator before the reply lands
	Reply    time.Duration // wait before a free text reply
}

// DefaultDelays match the interactive chat pacing.
var DefaultDelays = Delays{
	Thinking: 1500 * time.Millisecond,
	Typing:   800 * time.Millisecond,
	Reply:    time.Second,
}

// ErrEmptyMessage is returned for blank free text.
var ErrEmptyMessage = errors.New("empty message")

// Conversation is a chat session bound to one page.
type Conversation struct {
	mu       sync.Mutex
	page     Page
	delays   Delays
	now      func() time.Time
	messages []Message
	// OnTyping, if set, is called when the typing indicator would appear.
	OnTyping func()
}

// NewConversation starts an empty chat for page.
func NewConversation(page Page, d Delays) *Conversation {
	return &Conversation{page: page, delays: d, now: time.Now}
}

// Page returns the page the chat is bound to.
func (c *Conversation) Page() Page { return c.page }

// SetPage rebinds the chat, clearing the history like closing the window.
func (c *Conversation) SetPage(p Page) {
	c.mu.Lock()
	c.page = p
	c.messages = nil
	c.mu.Unlock()
}

// Ask posts a quick-action prompt and waits for the canned reply.
func (c *Conversation) Ask(ctx context.Context, r Request) (Message, error) {
	reply, ok := Respond(c.page, r)
	if !ok {
		return Message{}, errors.New("unknown request " + string(r))
	}
	c.add(SenderUser, PromptText(r))
	if err := sleep(ctx, c.delays.Thinking); err != nil {
		return Message{}, err
	}
	if c.OnTyping != nil {
		c.OnTyping()
	}
	if err := sleep(ctx, c.delays.Typing); err != nil {
		return Message{}, err
	}
	return c.add(SenderAssistant, reply), nil
}

// Send posts a free text message and waits for the simulated reply.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	c.add(SenderUser, text)
	if err := sleep(ctx, c.delays.Reply); err != nil {
		return Message{}, err
	}
	return c.add(SenderAssistant, FreeTextReply(text)), nil
}

// Messages returns a copy of the chat history.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Reset clears the history.
func (c *Conversation) Reset() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}

func (c *Conversation) add(s Sender, text string) Message {
	m := Message{ID: uuid.NewString(), Sender: s, Text: text, Timestamp: c.now()}
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
	return m
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
