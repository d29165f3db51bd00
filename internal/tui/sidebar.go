package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quicksilvermail/quicksilver/internal/domain"
)

// mailboxSelectedMsg is sent when the user selects a mailbox via Enter.
type mailboxSelectedMsg struct {
	mailbox domain.Mailbox
}

// mailboxNames maps mailboxes to display names.
var mailboxNames = map[domain.Mailbox]string{
	domain.MailboxInbox:  "Inbox",
	domain.MailboxSent:   "Sent",
	domain.MailboxDrafts: "Drafts",
	domain.MailboxTrash:  "Trash",
}

// sidebarModel displays the navigable list of mailboxes with per-box
// thread counts and the inbox unread badge.
type sidebarModel struct {
	counts        map[domain.Mailbox]int
	unread        int
	cursor        int
	activeMailbox domain.Mailbox
	accountEmail  string
	width         int
	height        int
	focused       bool
}

func newSidebar() sidebarModel {
	return sidebarModel{
		activeMailbox: domain.MailboxInbox,
		counts:        make(map[domain.Mailbox]int),
	}
}

// SetCounts updates the per-mailbox thread counts and the inbox unread total.
func (s *sidebarModel) SetCounts(counts map[domain.Mailbox]int, unread int) {
	s.counts = counts
	s.unread = unread
}

// SetSize updates the sidebar dimensions.
func (s *sidebarModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// Update handles key events for sidebar navigation.
func (s sidebarModel) Update(msg tea.Msg) (sidebarModel, tea.Cmd) {
	if !s.focused {
		return s, nil
	}

	total := len(domain.Mailboxes)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor--
			if s.cursor < 0 {
				s.cursor = total - 1
			}
		case key.Matches(msg, keys.Down):
			s.cursor++
			if s.cursor >= total {
				s.cursor = 0
			}
		case key.Matches(msg, keys.Enter):
			box := domain.Mailboxes[s.cursor]
			s.activeMailbox = box
			return s, func() tea.Msg {
				return mailboxSelectedMsg{mailbox: box}
			}
		}
	}

	return s, nil
}

// View renders the sidebar.
func (s sidebarModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("quicksilver"))
	b.WriteString("\n")
	if s.accountEmail != "" {
		b.WriteString(mutedTextStyle.Render(truncateEmail(s.accountEmail, max(s.width, 10))))
	}
	b.WriteString("\n")

	for i, box := range domain.Mailboxes {
		b.WriteString(s.renderLine(box, i))
		b.WriteString("\n")
	}

	return b.String()
}

// renderLine renders a single mailbox line with cursor highlighting,
// active marker, and badge.
func (s sidebarModel) renderLine(box domain.Mailbox, idx int) string {
	prefix := "  "
	if box == s.activeMailbox {
		prefix = "▶ "
	}

	badge := ""
	if box == domain.MailboxInbox && s.unread > 0 {
		badge = fmt.Sprintf(" (%d)", s.unread)
	} else if n := s.counts[box]; n > 0 && box != domain.MailboxInbox {
		badge = fmt.Sprintf(" (%d)", n)
	}

	line := prefix + mailboxNames[box] + badge

	// Pad to width so highlight covers the full line.
	padded := lipgloss.NewStyle().Width(max(s.width, 10)).Render(line)

	if s.focused && idx == s.cursor {
		return selectedStyle.Render(padded)
	}
	if box == domain.MailboxInbox && s.unread > 0 {
		return unreadStyle.Render(padded)
	}

	return padded
}

// truncateEmail shortens an email address to fit within maxLen.
func truncateEmail(email string, maxLen int) string {
	if len(email) <= maxLen {
		return email
	}
	if maxLen <= 3 {
		return email[:maxLen]
	}
	return email[:maxLen-1] + "…"
}
