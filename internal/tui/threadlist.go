package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quicksilvermail/quicksilver/internal/domain"
)

// Messages emitted by threadListModel.

type threadSelectedMsg struct {
	threadID string
}

type threadActionMsg struct {
	threadID string
	action   string
}

// threadListModel is a Bubble Tea sub-model that displays the thread
// list for the active mailbox.
type threadListModel struct {
	threads []domain.Thread
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

func newThreadList() threadListModel {
	return threadListModel{}
}

func (m threadListModel) Update(msg tea.Msg) (threadListModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.threads)-1 {
				m.cursor++
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Enter):
			return m, m.selectThread()

		case key.Matches(msg, keys.Delete):
			return m, m.actionCmd("trash")

		case key.Matches(msg, keys.MarkRead):
			return m, m.actionCmd("mark-read")
		}
	}

	return m, nil
}

func (m threadListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if len(m.threads) == 0 {
		return mutedTextStyle.Render("No messages")
	}

	var b strings.Builder
	visible := m.visibleRows()
	end := m.offset + visible
	if end > len(m.threads) {
		end = len(m.threads)
	}

	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		line := m.renderRow(i)
		if i == m.cursor && m.focused {
			line = selectedStyle.Width(m.width).Render(line)
		}
		b.WriteString(line)
	}

	return b.String()
}

// SetThreads replaces the displayed thread list.
func (m *threadListModel) SetThreads(threads []domain.Thread) {
	m.threads = threads
	m.clampCursor()
}

// SetSize updates the dimensions available for rendering.
func (m *threadListModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.adjustScroll()
}

// SelectedThreadID returns the ID of the currently highlighted thread.
func (m threadListModel) SelectedThreadID() string {
	if len(m.threads) == 0 || m.cursor >= len(m.threads) {
		return ""
	}
	return m.threads[m.cursor].ID
}

// --- internal helpers ---

func (m threadListModel) visibleRows() int {
	if m.height < 1 {
		return 1
	}
	return m.height
}

func (m *threadListModel) adjustScroll() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *threadListModel) clampCursor() {
	if len(m.threads) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.threads) {
		m.cursor = len(m.threads) - 1
	}
	m.adjustScroll()
}

func (m threadListModel) selectThread() tea.Cmd {
	id := m.SelectedThreadID()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		return threadSelectedMsg{threadID: id}
	}
}

func (m threadListModel) actionCmd(action string) tea.Cmd {
	id := m.SelectedThreadID()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		return threadActionMsg{threadID: id, action: action}
	}
}

func (m threadListModel) renderRow(idx int) string {
	t := m.threads[idx]

	attach := "  "
	if t.HasAttachment {
		attach = attachStyle.Render("📎")
	}

	unread := "   "
	if t.IsUnread() {
		unread = fmt.Sprintf("%2d ", t.UnreadCount)
	}

	from := t.From()
	date := relativeDate(t.LastMessageTime)

	fromWidth := 18
	dateWidth := len(date)
	subjectWidth := m.width - fromWidth - dateWidth - len(unread) - 6 // attach(2) + two "  " gaps(4)
	if subjectWidth < 10 {
		subjectWidth = 10
	}

	from = truncate(from, fromWidth)
	subject := truncate(t.Subject+"  "+t.LastMessage, subjectWidth)

	fromCol := lipgloss.NewStyle().Width(fromWidth).Render(from)
	subjectCol := lipgloss.NewStyle().Width(subjectWidth).Render(subject)
	dateCol := mutedTextStyle.Width(dateWidth).Render(date)

	line := unread + attach + fromCol + "  " + subjectCol + "  " + dateCol

	if t.IsUnread() {
		line = unreadStyle.Render(line)
	}

	return line
}

// --- utility functions ---

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func relativeDate(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
