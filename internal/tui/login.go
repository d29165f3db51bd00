package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Messages emitted by loginModel.

type loginSubmittedMsg struct {
	email    string
	password string
}

type registerSubmittedMsg struct {
	email    string
	password string
	name     string
}

type quitLoginMsg struct{}

// loginBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type loginBindings struct {
	email    string
	password string
	name     string
}

// loginModel gates the mail view behind a login or registration form.
type loginModel struct {
	form     *huh.Form
	fb       *loginBindings
	register bool
	errText  string
	busy     bool
	width    int
	height   int
}

func newLogin() loginModel {
	m := loginModel{fb: &loginBindings{}}
	m.form = m.buildForm()
	return m
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+n" {
		// Toggle between sign-in and registration.
		m.register = !m.register
		m.errText = ""
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return quitLoginMsg{} }
	}

	return m, cmd
}

func (m loginModel) View() string {
	title := "Sign in"
	hint := "Ctrl+N: create an account"
	if m.register {
		title = "Create account"
		hint = "Ctrl+N: back to sign in"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("quicksilver"))
	b.WriteString("\n")
	b.WriteString(mutedTextStyle.Render(title))
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(mutedTextStyle.Render("Signing in..."))
	} else {
		b.WriteString(m.form.View())
	}

	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(errorColor).Render(m.errText))
		b.WriteString("\n")
	}
	b.WriteString(mutedTextStyle.Render(hint))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetError displays an authentication failure and reopens the form.
func (m *loginModel) SetError(err error) {
	m.errText = err.Error()
	m.busy = false
	m.form = m.buildForm()
}

// SetSize updates the form dimensions.
func (m *loginModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m loginModel) submit() tea.Cmd {
	fb := *m.fb
	if m.register {
		return func() tea.Msg {
			return registerSubmittedMsg{email: fb.email, password: fb.password, name: fb.name}
		}
	}
	return func() tea.Msg {
		return loginSubmittedMsg{email: fb.email, password: fb.password}
	}
}

func (m *loginModel) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.fb.email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(validateRequired("Password")),
	}

	if m.register {
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Placeholder("Display name (optional)").
				Value(&m.fb.name),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.formWidth()).
		WithShowHelp(false)
}

func (m loginModel) formWidth() int {
	w := m.width - 8
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}
