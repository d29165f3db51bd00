package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/mailstore"
)

// composerMode describes the kind of composition taking place.
type composerMode int

const (
	modeCompose composerMode = iota
	modeReply
)

// Messages emitted by composerModel.

type sendEmailMsg struct {
	email mailstore.Email
}

type sendReplyMsg struct {
	threadID string
	body     string
}

type saveDraftMsg struct {
	draft mailstore.Email
}

type cancelComposeMsg struct{}

// Field indices within the composer form.
const (
	fieldTo      = 0
	fieldSubject = 1
	fieldBody    = 2
	fieldCount   = 3
)

// composerModel is a Bubble Tea sub-model for composing new emails and
// replying to existing threads.
type composerModel struct {
	toInput      textinput.Model
	subjectInput textinput.Model
	bodyInput    textarea.Model

	activeField int
	mode        composerMode
	replyTo     string

	width   int
	height  int
	visible bool
}

func newComposer() composerModel {
	to := textinput.New()
	to.Placeholder = "recipient@example.com"
	to.CharLimit = 500
	to.Prompt = ""

	subject := textinput.New()
	subject.Placeholder = "Subject"
	subject.CharLimit = 200
	subject.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Write your message..."
	body.SetWidth(40)
	body.SetHeight(6)
	body.CharLimit = 0

	return composerModel{
		toInput:      to,
		subjectInput: subject,
		bodyInput:    body,
	}
}

// Update handles key events for the composer form.
func (c composerModel) Update(msg tea.Msg) (composerModel, tea.Cmd) {
	if !c.visible {
		return c, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			c.activeField = (c.activeField + 1) % fieldCount
			if c.mode == modeReply {
				// Replies only edit the body.
				c.activeField = fieldBody
			}
			c.updateFocus()
			return c, nil

		case "esc":
			return c, func() tea.Msg { return cancelComposeMsg{} }

		case "ctrl+s":
			return c, c.submit()

		case "ctrl+d":
			if c.mode == modeCompose {
				draft := c.buildEmail()
				return c, func() tea.Msg { return saveDraftMsg{draft: draft} }
			}
		}
	}

	// Delegate to the active input component.
	var cmd tea.Cmd
	switch c.activeField {
	case fieldTo:
		c.toInput, cmd = c.toInput.Update(msg)
	case fieldSubject:
		c.subjectInput, cmd = c.subjectInput.Update(msg)
	case fieldBody:
		c.bodyInput, cmd = c.bodyInput.Update(msg)
	}

	return c, cmd
}

// View renders the compose form inside a bordered box.
func (c composerModel) View() string {
	if !c.visible {
		return ""
	}

	innerWidth := c.width - 4 // account for border + padding
	if innerWidth < 20 {
		innerWidth = 20
	}

	labelWidth := 10
	inputWidth := innerWidth - labelWidth
	if inputWidth < 10 {
		inputWidth = 10
	}

	c.toInput.Width = inputWidth
	c.subjectInput.Width = inputWidth
	c.bodyInput.SetWidth(innerWidth)

	// Body height: total minus border(2) padding(2) fields(2) separator(1) help(1) spacing(1).
	bodyHeight := c.height - 9
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	c.bodyInput.SetHeight(bodyHeight)

	toLabel := mutedTextStyle.Render(fmt.Sprintf("%-9s", "To:"))
	subjectLabel := mutedTextStyle.Render(fmt.Sprintf("%-9s", "Subject:"))

	separator := mutedTextStyle.Render(strings.Repeat("─", innerWidth))

	helpText := mutedTextStyle.Render("Tab:fields  Ctrl+S:send  Ctrl+D:save draft  Esc:cancel")
	if c.mode == modeReply {
		helpText = mutedTextStyle.Render("Ctrl+S:send  Esc:cancel")
	}

	var rows []string
	rows = append(rows, toLabel+c.toInput.View())
	rows = append(rows, subjectLabel+c.subjectInput.View())
	rows = append(rows, separator)
	rows = append(rows, c.bodyInput.View())
	rows = append(rows, "")
	rows = append(rows, helpText)

	content := strings.Join(rows, "\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(0, 1).
		Width(c.width - 2)

	titleRow := titleStyle.Render(" " + c.modeTitle() + " ")

	return titleRow + "\n" + boxStyle.Render(content)
}

// Compose opens the composer for a new email, clearing all fields.
func (c *composerModel) Compose() {
	c.mode = modeCompose
	c.replyTo = ""
	c.clearFields()
	c.visible = true
	c.activeField = fieldTo
	c.updateFocus()
}

// Reply opens the composer for replying to the given thread. To and
// Subject are shown read-only and only the body is editable.
func (c *composerModel) Reply(thread *domain.Thread) {
	c.mode = modeReply
	c.replyTo = thread.ID
	c.clearFields()
	c.visible = true

	c.toInput.SetValue(thread.From())
	subject := thread.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re: ") {
		subject = "Re: " + subject
	}
	c.subjectInput.SetValue(subject)

	c.activeField = fieldBody
	c.updateFocus()
}

// Close hides the composer and clears all fields.
func (c *composerModel) Close() {
	c.visible = false
	c.clearFields()
}

// SetSize updates the available dimensions for the composer.
func (c *composerModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// IsVisible reports whether the composer is currently displayed.
func (c composerModel) IsVisible() bool {
	return c.visible
}

// --- internal helpers ---

func (c composerModel) submit() tea.Cmd {
	if c.mode == modeReply {
		threadID := c.replyTo
		body := c.bodyInput.Value()
		if strings.TrimSpace(body) == "" {
			return nil
		}
		return func() tea.Msg {
			return sendReplyMsg{threadID: threadID, body: body}
		}
	}
	email := c.buildEmail()
	return func() tea.Msg { return sendEmailMsg{email: email} }
}

// buildEmail constructs a mailstore.Email from the current field values.
func (c composerModel) buildEmail() mailstore.Email {
	return mailstore.Email{
		To:      parseAddresses(c.toInput.Value()),
		Subject: c.subjectInput.Value(),
		Body:    c.bodyInput.Value(),
	}
}

// clearFields resets all input fields to empty.
func (c *composerModel) clearFields() {
	c.toInput.SetValue("")
	c.subjectInput.SetValue("")
	c.bodyInput.SetValue("")
}

// updateFocus sets the correct focus state on all input components.
func (c *composerModel) updateFocus() {
	c.toInput.Blur()
	c.subjectInput.Blur()
	c.bodyInput.Blur()

	switch c.activeField {
	case fieldTo:
		c.toInput.Focus()
	case fieldSubject:
		c.subjectInput.Focus()
	case fieldBody:
		c.bodyInput.Focus()
	}
}

// modeTitle returns the title string for the current composer mode.
func (c composerModel) modeTitle() string {
	if c.mode == modeReply {
		return "Reply"
	}
	return "Compose"
}

// parseAddresses splits a comma-separated string into participants.
// Each entry is trimmed. If the entry contains "<email>", name and
// email are extracted; otherwise the whole string is the address.
func parseAddresses(s string) []domain.Participant {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]domain.Participant, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, parseOneAddress(part))
	}

	return out
}

// parseOneAddress parses a single address string. Supports
// "Name <email>" and bare "email" formats.
func parseOneAddress(s string) domain.Participant {
	if idx := strings.LastIndex(s, "<"); idx >= 0 {
		end := strings.Index(s[idx:], ">")
		if end > 0 {
			name := strings.TrimSpace(s[:idx])
			email := s[idx+1 : idx+end]
			if name == "" {
				name = email
			}
			return domain.Participant{Name: name, Email: email}
		}
	}
	return domain.Participant{Name: s, Email: s}
}
