package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEveryPageAnswersEveryRequest(t *testing.T) {
	for _, p := range []Page{PageOverview, PageReports, PageCampaigns} {
		for _, r := range Requests {
			text, ok := Respond(p, r)
			if !ok || text == "" {
				t.Fatalf("Respond(%s, %s) missing", p, r)
			}
		}
	}
	if text, _ := Respond("settings", RequestSummary); !strings.Contains(text, "Dashboard Overview Summary") {
		t.Fatalf("unknown page should fall back to the overview, got %q", text)
	}
}

func TestParseRequest(t *testing.T) {
	r, err := ParseRequest("Best")
	if err != nil || r != RequestBestCampaigns {
		t.Fatalf("ParseRequest(Best) = %q, %v", r, err)
	}
	if _, err := ParseRequest("weather"); err == nil {
		t.Fatal("expected error for unknown request")
	}
}

func TestAskRecordsPromptAndReply(t *testing.T) {
	c := NewConversation(PageReports, Delays{})
	typed := false
	c.OnTyping = func() { typed = true }

	reply, err := c.Ask(context.Background(), RequestSummary)
	if err != nil {
		t.Fatal(err)
	}
	if !typed {
		t.Fatal("OnTyping not called")
	}
	if !strings.HasPrefix(reply.Text, "📈 Reports Analysis Summary") {
		t.Fatalf("reply = %q", reply.Text)
	}
	msgs := c.Messages()
	if len(msgs) != 2 || msgs[0].Sender != SenderUser || msgs[0].Text != PromptText(RequestSummary) {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestSendFreeText(t *testing.T) {
	c := NewConversation(PageOverview, Delays{})
	if _, err := c.Send(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("blank Send err = %v", err)
	}
	reply, err := c.Send(context.Background(), "why is CTR low")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply.Text, `"why is CTR low"`) || !strings.Contains(reply.Text, "simulated response") {
		t.Fatalf("reply = %q", reply.Text)
	}
	c.Reset()
	if len(c.Messages()) != 0 {
		t.Fatal("Reset left messages")
	}
}

func TestAskHonorsCancellation(t *testing.T) {
	c := NewConversation(PageOverview, Delays{Thinking: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.Ask(ctx, RequestImprovements); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if n := len(c.Messages()); n != 1 {
		t.Fatalf("messages = %d, want only the prompt", n)
	}
}
