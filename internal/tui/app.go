package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quicksilvermail/quicksilver/internal/app"
	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/mailstore"
	"github.com/quicksilvermail/quicksilver/internal/session"
)

type pane int

const (
	paneSidebar pane = iota
	paneList
	paneReader
)

// --- async result messages ---

type loggedInMsg struct {
	user *domain.User
}

type loginFailedMsg struct {
	err error
}

type mailLoadedMsg struct{}

type replySentMsg struct {
	threadID string
}

type emailSentMsg struct {
	threadID string
}

type draftSavedMsg struct {
	threadID string
}

type actionDoneMsg struct {
	action   string
	threadID string
}

type errMsg struct {
	err error
}

// --- root model ---

type model struct {
	app *app.App

	login    loginModel
	sidebar  sidebarModel
	list     threadListModel
	reader   readerModel
	composer composerModel
	search   searchModel

	authenticated bool
	activePane    pane
	statusBar     statusBar

	width  int
	height int
}

// NewModel creates the root TUI model over the application context.
func NewModel(a *app.App) model {
	list := newThreadList()
	list.focused = true

	sidebar := newSidebar()
	if u := a.Session.CurrentUser(); u != nil {
		sidebar.accountEmail = u.Email
	}

	return model{
		app:           a,
		authenticated: a.Session.IsAuthenticated(),
		login:         newLogin(),
		sidebar:       sidebar,
		list:          list,
		reader:        newReader(),
		composer:      newComposer(),
		search:        newSearch(),
		activePane:    paneList,
		statusBar:     newStatusBar(),
	}
}

func (m model) Init() tea.Cmd {
	if m.authenticated {
		return m.loadMailCmd()
	}
	return m.login.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.width = msg.Width
		m.login.SetSize(msg.Width, msg.Height)
		m.resizeSubModels()
		return m, nil
	}

	if !m.authenticated {
		return m.updateLogin(msg)
	}
	return m.updateMail(msg)
}

// updateLogin routes messages while the login gate is showing.
func (m model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case loginSubmittedMsg:
		m.statusBar.setMessage("Signing in...")
		return m, m.loginCmd(msg.email, msg.password)

	case registerSubmittedMsg:
		m.statusBar.setMessage("Creating account...")
		return m, m.registerCmd(msg)

	case loggedInMsg:
		m.authenticated = true
		m.sidebar.accountEmail = msg.user.Email
		m.statusBar.setMessage(fmt.Sprintf("Signed in as %s", msg.user.Email))
		return m, m.loadMailCmd()

	case loginFailedMsg:
		m.login.SetError(msg.err)
		return m, m.login.Init()

	case quitLoginMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

// updateMail routes messages for the main mail view.
func (m model) updateMail(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// --- async result messages ---
	case mailLoadedMsg:
		m.refreshSidebar()
		m.refreshList()
		m.statusBar.setMessage(fmt.Sprintf("Loaded %d threads", m.threadTotal()))
		return m, nil

	case replySentMsg:
		m.composer.Close()
		m.statusBar.setMessage("Reply sent")
		m.reopenThread(msg.threadID)
		m.refreshSidebar()
		return m, nil

	case emailSentMsg:
		m.composer.Close()
		m.statusBar.setMessage("Email sent")
		m.setFocus(paneList)
		m.refreshSidebar()
		m.refreshList()
		return m, nil

	case draftSavedMsg:
		m.composer.Close()
		m.statusBar.setMessage("Draft saved")
		m.setFocus(paneList)
		m.refreshSidebar()
		m.refreshList()
		return m, nil

	case actionDoneMsg:
		m.statusBar.setMessage(fmt.Sprintf("Action: %s done", msg.action))
		if msg.action == "trash" && m.reader.IsVisible() {
			m.reader.Close()
			m.statusBar.readerVisible = false
			m.setFocus(paneList)
		}
		m.refreshSidebar()
		m.refreshList()
		return m, nil

	case errMsg:
		m.statusBar.setError(fmt.Sprintf("Error: %v", msg.err))
		return m, nil

	// --- sub-model emitted messages ---
	case mailboxSelectedMsg:
		m.reader.Close()
		m.statusBar.readerVisible = false
		m.list.cursor = 0
		m.list.offset = 0
		m.setFocus(paneList)
		m.refreshList()
		m.statusBar.setMessage(fmt.Sprintf("Mailbox: %s", msg.mailbox))
		return m, nil

	case threadSelectedMsg:
		return m.openThread(msg.threadID)

	case threadActionMsg:
		m.statusBar.setMessage(fmt.Sprintf("Performing %s...", msg.action))
		return m, m.performActionCmd(msg.threadID, msg.action)

	case replyMsg:
		m.composer.Reply(msg.thread)
		m.resizeComposer()
		return m, nil

	case closeReaderMsg:
		m.reader.Close()
		m.statusBar.readerVisible = false
		m.setFocus(paneList)
		return m, nil

	case sendEmailMsg:
		m.statusBar.setMessage("Sending email...")
		return m, m.sendEmailCmd(msg.email)

	case sendReplyMsg:
		m.statusBar.setMessage("Sending reply...")
		return m, m.sendReplyCmd(msg.threadID, msg.body)

	case saveDraftMsg:
		m.statusBar.setMessage("Saving draft...")
		return m, m.saveDraftCmd(msg.draft)

	case cancelComposeMsg:
		m.composer.Close()
		m.setFocus(paneList)
		return m, nil

	case searchQueryMsg:
		results := matchThreads(m.allThreads(), msg.query)
		m.search.SetResults(results)
		m.statusBar.setMessage(fmt.Sprintf("Found %d results", len(results)))
		return m, nil

	case searchResultSelectedMsg:
		m.search.Close()
		return m.openThread(msg.threadID)

	case closeSearchMsg:
		m.search.Close()
		m.setFocus(paneList)
		return m, nil

	// --- key events ---
	case tea.KeyMsg:
		// Composer gets all key events when visible.
		if m.composer.IsVisible() {
			var cmd tea.Cmd
			m.composer, cmd = m.composer.Update(msg)
			return m, cmd
		}

		// Search gets all key events when active.
		if m.search.IsActive() {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Compose):
			m.composer.Compose()
			m.resizeComposer()
			return m, nil

		case key.Matches(msg, keys.Search):
			m.search.Open()
			m.resizeSearch()
			return m, nil

		case key.Matches(msg, keys.Refresh):
			m.statusBar.setMessage("Reloading...")
			return m, m.loadMailCmd()

		case key.Matches(msg, keys.Tab):
			if m.reader.IsVisible() {
				if m.activePane == paneList {
					m.setFocus(paneReader)
				} else {
					m.setFocus(paneList)
				}
			} else {
				if m.activePane == paneSidebar {
					m.setFocus(paneList)
				} else {
					m.setFocus(paneSidebar)
				}
			}
			return m, nil
		}

		// Delegate to focused sub-model.
		var cmd tea.Cmd
		switch m.activePane {
		case paneSidebar:
			m.sidebar, cmd = m.sidebar.Update(msg)
		case paneList:
			m.list, cmd = m.list.Update(msg)
		case paneReader:
			m.reader, cmd = m.reader.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if !m.authenticated {
		return m.login.View()
	}

	sidebarWidth, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3 // reserve space for status bar

	sidebarView := sidebarStyle.
		Width(sidebarWidth).
		Height(contentHeight).
		Render(m.sidebar.View())

	var contentView string

	switch {
	case m.composer.IsVisible():
		contentView = lipgloss.NewStyle().
			Width(contentWidth).
			Height(contentHeight).
			Render(m.composer.View())

	case m.search.IsActive():
		contentView = lipgloss.NewStyle().
			Width(contentWidth).
			Height(contentHeight).
			Render(m.search.View())

	case m.reader.IsVisible():
		// Split view: list on top, reader below.
		listHeight := contentHeight / 2
		readerHeight := contentHeight - listHeight

		listView := listStyle.
			Width(contentWidth).
			Height(listHeight).
			Render(m.list.View())

		readerView := readerStyle.
			Width(contentWidth).
			Height(readerHeight).
			Render(m.reader.View())

		contentView = lipgloss.JoinVertical(lipgloss.Left, listView, readerView)

	default:
		contentView = listStyle.
			Width(contentWidth).
			Height(contentHeight).
			Render(m.list.View())
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, contentView)
	sb := m.statusBar.View()

	return lipgloss.JoinVertical(lipgloss.Left, main, sb)
}

// --- focus management ---

func (m *model) setFocus(p pane) {
	m.activePane = p
	m.sidebar.focused = (p == paneSidebar)
	m.list.focused = (p == paneList)
	m.reader.focused = (p == paneReader)
}

// --- data refresh helpers ---

func (m *model) refreshList() {
	m.list.SetThreads(m.app.Mail.Threads(m.sidebar.activeMailbox))
}

func (m *model) refreshSidebar() {
	counts := make(map[domain.Mailbox]int, len(domain.Mailboxes))
	for _, box := range domain.Mailboxes {
		counts[box] = len(m.app.Mail.Threads(box))
	}
	m.sidebar.SetCounts(counts, m.app.Mail.UnreadCount())
}

func (m model) allThreads() []domain.Thread {
	var out []domain.Thread
	for _, box := range domain.Mailboxes {
		if box == domain.MailboxTrash {
			continue
		}
		out = append(out, m.app.Mail.Threads(box)...)
	}
	return out
}

func (m model) threadTotal() int {
	total := 0
	for _, box := range domain.Mailboxes {
		total += len(m.app.Mail.Threads(box))
	}
	return total
}

// openThread shows a thread in the reader and marks it read.
func (m model) openThread(threadID string) (tea.Model, tea.Cmd) {
	thread, ok := m.app.Mail.GetThread(threadID)
	if !ok {
		m.statusBar.setError(fmt.Sprintf("Thread not found: %s", threadID))
		return m, nil
	}

	messages := m.app.Mail.GetMessages(threadID)
	m.reader.ShowThread(&thread, messages)
	m.setFocus(paneReader)
	m.statusBar.readerVisible = true
	m.resizeSubModels()

	if thread.IsUnread() {
		return m, m.performActionCmd(threadID, "mark-read")
	}
	return m, nil
}

// reopenThread refreshes the reader content after a reply landed.
func (m *model) reopenThread(threadID string) {
	thread, ok := m.app.Mail.GetThread(threadID)
	if !ok {
		return
	}
	m.reader.ShowThread(&thread, m.app.Mail.GetMessages(threadID))
	m.setFocus(paneReader)
	m.statusBar.readerVisible = true
	m.resizeSubModels()
}

// --- layout helpers ---

func (m model) layoutWidths() (sidebarWidth, contentWidth int) {
	sidebarWidth = m.width / 5
	if sidebarWidth < 20 {
		sidebarWidth = 20
	}
	contentWidth = m.width - sidebarWidth - 2
	return
}

func (m *model) resizeSubModels() {
	sidebarWidth, contentWidth := m.layoutWidths()
	contentHeight := m.height - 3

	// Pass content area dimensions (subtract border + padding from each style).
	m.sidebar.SetSize(sidebarWidth-4, contentHeight-4)

	if m.reader.IsVisible() {
		listHeight := contentHeight / 2
		readerHeight := contentHeight - listHeight
		m.list.SetSize(contentWidth-4, listHeight-2)
		m.reader.SetSize(contentWidth-6, readerHeight-4)
	} else {
		m.list.SetSize(contentWidth-4, contentHeight-2)
	}

	m.resizeComposer()
	m.resizeSearch()
}

func (m *model) resizeComposer() {
	_, contentWidth := m.layoutWidths()
	m.composer.SetSize(contentWidth, m.height-3)
}

func (m *model) resizeSearch() {
	_, contentWidth := m.layoutWidths()
	m.search.SetSize(contentWidth, m.height-3)
}

// --- async commands ---

func (m model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := m.app.Session.Login(context.Background(), email, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return loggedInMsg{user: user}
	}
}

func (m model) registerCmd(reg registerSubmittedMsg) tea.Cmd {
	return func() tea.Msg {
		user, err := m.app.Session.Register(context.Background(), session.Registration{
			Email:    reg.email,
			Password: reg.password,
			Name:     reg.name,
		})
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return loggedInMsg{user: user}
	}
}

func (m model) loadMailCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Mail.Load(context.Background()); err != nil {
			return errMsg{err: fmt.Errorf("failed to load mailboxes: %w", err)}
		}
		return mailLoadedMsg{}
	}
}

func (m model) sendEmailCmd(email mailstore.Email) tea.Cmd {
	return func() tea.Msg {
		thread, err := m.app.Mail.SendEmail(context.Background(), email)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to send email: %w", err)}
		}
		return emailSentMsg{threadID: thread.ID}
	}
}

func (m model) sendReplyCmd(threadID, body string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.app.Mail.SendMessage(context.Background(), threadID, body); err != nil {
			return errMsg{err: fmt.Errorf("failed to send reply: %w", err)}
		}
		return replySentMsg{threadID: threadID}
	}
}

func (m model) saveDraftCmd(draft mailstore.Email) tea.Cmd {
	return func() tea.Msg {
		thread, err := m.app.Mail.SaveDraft(context.Background(), draft)
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to save draft: %w", err)}
		}
		return draftSavedMsg{threadID: thread.ID}
	}
}

func (m model) performActionCmd(threadID, action string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error

		switch action {
		case "trash":
			err = m.app.Mail.DeleteThread(ctx, threadID)
		case "mark-read":
			err = m.app.Mail.MarkAsRead(ctx, threadID)
		default:
			return errMsg{err: fmt.Errorf("unknown action: %s", action)}
		}

		if err != nil {
			return errMsg{err: fmt.Errorf("failed to %s: %w", action, err)}
		}
		return actionDoneMsg{action: action, threadID: threadID}
	}
}

// Run starts the Bubble Tea TUI application.
func Run(a *app.App) error {
	prog := tea.NewProgram(
		NewModel(a),
		tea.WithAltScreen(),
	)
	_, err := prog.Run()
	return err
}
