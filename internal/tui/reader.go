package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quicksilvermail/quicksilver/internal/domain"
)

// Messages emitted by readerModel.

type replyMsg struct {
	thread *domain.Thread
}

type closeReaderMsg struct{}

// readerModel is a Bubble Tea sub-model for displaying a thread's
// message history in a scrollable pane.
type readerModel struct {
	thread       *domain.Thread
	messages     []domain.Message
	content      string
	scrollOffset int
	maxScroll    int
	width        int
	height       int
	focused      bool
	visible      bool
}

func newReader() readerModel {
	return readerModel{}
}

func (r readerModel) Update(msg tea.Msg) (readerModel, tea.Cmd) {
	if !r.focused || !r.visible {
		return r, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if r.scrollOffset > 0 {
				r.scrollOffset--
			}

		case key.Matches(msg, keys.Down):
			if r.scrollOffset < r.maxScroll {
				r.scrollOffset++
			}

		case key.Matches(msg, keys.Back):
			return r, func() tea.Msg {
				return closeReaderMsg{}
			}

		case key.Matches(msg, keys.Reply):
			if r.thread != nil {
				thread := r.thread
				return r, func() tea.Msg {
					return replyMsg{thread: thread}
				}
			}

		case key.Matches(msg, keys.Delete):
			if r.thread != nil {
				id := r.thread.ID
				return r, func() tea.Msg {
					return threadActionMsg{threadID: id, action: "trash"}
				}
			}

		case key.Matches(msg, keys.MarkRead):
			if r.thread != nil {
				id := r.thread.ID
				return r, func() tea.Msg {
					return threadActionMsg{threadID: id, action: "mark-read"}
				}
			}
		}
	}

	return r, nil
}

func (r readerModel) View() string {
	if !r.visible || r.width == 0 || r.height == 0 {
		return ""
	}

	if r.content == "" {
		return mutedTextStyle.Render("No thread selected")
	}

	lines := strings.Split(r.content, "\n")

	visibleHeight := r.height
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	end := r.scrollOffset + visibleHeight
	if end > len(lines) {
		end = len(lines)
	}

	start := r.scrollOffset
	if start > len(lines) {
		start = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

// ShowThread displays a thread's message history in the reader pane.
func (r *readerModel) ShowThread(thread *domain.Thread, messages []domain.Message) {
	r.thread = thread
	r.messages = messages
	r.visible = true
	r.scrollOffset = 0
	r.content = renderThread(thread, messages, r.width)
	r.recalcMaxScroll()
}

// Close hides the reader and clears its content.
func (r *readerModel) Close() {
	r.visible = false
	r.thread = nil
	r.messages = nil
	r.content = ""
	r.scrollOffset = 0
	r.maxScroll = 0
}

// SetSize updates the reader dimensions and recalculates scroll bounds.
func (r *readerModel) SetSize(w, h int) {
	r.width = w
	r.height = h
	if r.thread != nil {
		r.content = renderThread(r.thread, r.messages, r.width)
	}
	r.recalcMaxScroll()
}

// IsVisible returns whether the reader pane is currently shown.
func (r readerModel) IsVisible() bool {
	return r.visible
}

// --- internal helpers ---

func (r *readerModel) recalcMaxScroll() {
	if r.content == "" {
		r.maxScroll = 0
		r.scrollOffset = 0
		return
	}

	lines := strings.Split(r.content, "\n")
	visibleHeight := r.height
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	r.maxScroll = len(lines) - visibleHeight
	if r.maxScroll < 0 {
		r.maxScroll = 0
	}

	if r.scrollOffset > r.maxScroll {
		r.scrollOffset = r.maxScroll
	}
}

// renderThread formats a thread header followed by every message in its
// history, oldest first.
func renderThread(thread *domain.Thread, messages []domain.Message, width int) string {
	sepWidth := width
	if sepWidth < 20 {
		sepWidth = 20
	}
	separator := mutedTextStyle.Render(strings.Repeat("─", sepWidth))

	var b strings.Builder

	b.WriteString(titleStyle.Render(thread.Subject))
	b.WriteByte('\n')
	b.WriteString(mutedTextStyle.Render("Participants: "))
	b.WriteString(formatParticipants(thread.Participants))
	b.WriteByte('\n')
	b.WriteString(separator)

	if len(messages) == 0 {
		b.WriteByte('\n')
		b.WriteString(mutedTextStyle.Render("Empty thread"))
		return b.String()
	}

	for i := range messages {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(separator)
		}
		b.WriteByte('\n')
		b.WriteString(renderMessage(&messages[i]))
	}

	return b.String()
}

// renderMessage formats a single message with headers and body.
func renderMessage(msg *domain.Message) string {
	var b strings.Builder

	b.WriteString(mutedTextStyle.Render("From: "))
	b.WriteString(msg.Sender.String())
	b.WriteByte('\n')

	b.WriteString(mutedTextStyle.Render("Date: "))
	b.WriteString(msg.Timestamp.Format("Jan 2, 2006 3:04 PM"))
	b.WriteByte('\n')

	b.WriteByte('\n')
	b.WriteString(msg.Content)

	return b.String()
}

// formatParticipants joins participants into a comma-separated string.
func formatParticipants(ps []domain.Participant) string {
	if len(ps) == 0 {
		return ""
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
