package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/admybrand/adpulse/internal/assistant"
	"github.com/admybrand/adpulse/internal/tui/components"
	"github.com/admybrand/adpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const chatTimeout = 30 * time.Second

var chatPages = []assistant.Page{assistant.PageOverview, assistant.PageReports, assistant.PageCampaigns}

// chatReplyMsg carries the assistant's reply.
type chatReplyMsg struct {
	msg assistant.Message
	err error
}

// chatState holds the assistant tab state.
type chatState struct {
	conv    *assistant.Conversation
	input   textinput.Model
	focused bool
	waiting bool
	err     error
}

func newChatState(d assistant.Delays) chatState {
	ti := textinput.New()
	ti.Placeholder = "Ask about your campaigns…"
	ti.Prompt = "› "
	ti.CharLimit = 280
	ti.Width = 60
	return chatState{
		conv:  assistant.NewConversation(assistant.PageOverview, d),
		input: ti,
	}
}

func askCmd(conv *assistant.Conversation, r assistant.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		m, err := conv.Ask(ctx, r)
		return chatReplyMsg{msg: m, err: err}
	}
}

func sendCmd(conv *assistant.Conversation, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		m, err := conv.Send(ctx, text)
		return chatReplyMsg{msg: m, err: err}
	}
}

func (a App) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	a.chat.waiting = false
	a.chat.err = msg.err
	if msg.err != nil {
		a.log.Warn("assistant reply failed", "error", msg.err)
	}
	return a, nil
}

func (a App) updateChatKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "1", "2", "3":
		if a.chat.waiting {
			return a, nil, true
		}
		r := assistant.Requests[int(key[0]-'1')]
		a.chat.waiting = true
		a.chat.err = nil
		return a, tea.Batch(askCmd(a.chat.conv, r), a.spinner.Tick), true
	case "i", "enter":
		a.chat.focused = true
		a.chat.input.Focus()
		return a, textinput.Blink, true
	case "p":
		cur := a.chat.conv.Page()
		next := chatPages[0]
		for i, p := range chatPages {
			if p == cur {
				next = chatPages[(i+1)%len(chatPages)]
			}
		}
		a.chat.conv.SetPage(next)
		return a, nil, true
	case "C":
		a.chat.conv.Reset()
		a.chat.err = nil
		return a, nil, true
	}
	return a, nil, false
}

func (a App) updateChatInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.chat.focused = false
		a.chat.input.Blur()
		return a, nil
	case "enter":
		text := strings.TrimSpace(a.chat.input.Value())
		if text == "" || a.chat.waiting {
			return a, nil
		}
		a.chat.input.Reset()
		a.chat.waiting = true
		a.chat.err = nil
		return a, tea.Batch(sendCmd(a.chat.conv, text), a.spinner.Tick)
	}
	var cmd tea.Cmd
	a.chat.input, cmd = a.chat.input.Update(msg)
	return a, cmd
}

func pageTitle(p assistant.Page) string {
	switch p {
	case assistant.PageReports:
		return "Reports"
	case assistant.PageCampaigns:
		return "Manage Campaigns"
	}
	return "Overview"
}

func (a App) renderAssistantTab(cw, h int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	userStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Padding(0, 1)
	botStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Padding(0, 1)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)

	bubbleW := max(20, inner*3/4)

	var chatLog strings.Builder
	msgs := a.chat.conv.Messages()
	if len(msgs) == 0 {
		chatLog.WriteString(mutedStyle.Render("Hi! I can summarize performance, find your best campaigns, or suggest improvements."))
		chatLog.WriteString("\n")
	}
	for _, m := range msgs {
		ts := dimStyle.Render(m.Timestamp.Format("15:04"))
		if m.Sender == assistant.SenderUser {
			bubble := userStyle.Width(min(bubbleW, lipgloss.Width(m.Text)+2)).Render(m.Text)
			chatLog.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Right, bubble,
				lipgloss.WithWhitespaceBackground(t.Surface)))
			chatLog.WriteString("\n")
			chatLog.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Right, ts,
				lipgloss.WithWhitespaceBackground(t.Surface)))
		} else {
			chatLog.WriteString(botStyle.Width(bubbleW).Render(m.Text))
			chatLog.WriteString("\n")
			chatLog.WriteString(ts)
		}
		chatLog.WriteString("\n")
	}
	if a.chat.waiting {
		if a.prefs.AnimationsEnabled {
			chatLog.WriteString(a.spinner.View())
			chatLog.WriteString(mutedStyle.Render(" "))
		}
		chatLog.WriteString(mutedStyle.Render("Assistant is typing…"))
		chatLog.WriteString("\n")
	}
	if a.chat.err != nil {
		chatLog.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("Error: " + a.chat.err.Error()))
		chatLog.WriteString("\n")
	}

	// Keep the newest lines in view.
	logH := max(4, h-9)
	lines := strings.Split(strings.TrimRight(chatLog.String(), "\n"), "\n")
	if len(lines) > logH {
		lines = lines[len(lines)-logH:]
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	for i, r := range assistant.Requests {
		b.WriteString(keyStyle.Render(fmt.Sprintf("[%d]", i+1)))
		b.WriteString(mutedStyle.Render(" " + assistant.PromptText(r) + "  "))
	}
	b.WriteString("\n")
	if a.chat.focused {
		b.WriteString(a.chat.input.View())
	} else {
		b.WriteString(dimStyle.Render("[i] type a message  [p] switch page  [C] clear chat"))
	}

	title := fmt.Sprintf("AI Assistant · %s", pageTitle(a.chat.conv.Page()))
	return components.FocusCard(title, b.String(), cw)
}
