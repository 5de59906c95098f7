package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/people"
	"github.com/marcus/clubdash/internal/session"
	"github.com/marcus/clubdash/internal/social"
)

// Panel represents which panel is active
type Panel int

const (
	PanelPeople Panel = iota
	PanelRequests
	PanelFriends
	PanelNews
)

const panelCount = 4

// SessionSource is the part of the session store the dashboard reads.
type SessionSource interface {
	Current() session.Session
	Subscribe(fn func(session.Session)) func()
}

// NewsSource lists news items.
type NewsSource interface {
	Load(ctx context.Context)
	Items() []models.News
	Err() error
}

// Deps are the components the dashboard drives.
type Deps struct {
	Session SessionSource
	People  *people.Directory
	Inbox   *social.Inbox
	Friends *social.FriendList
	News    NewsSource
}

// Model is the main Bubble Tea model for the dashboard TUI
type Model struct {
	deps Deps

	// Window dimensions
	Width  int
	Height int

	// Panel data
	Viewer   *models.Profile
	People   []models.User
	Friends  people.IDSet
	Pending  people.IDSet
	Requests []models.FriendRequest
	Friended []models.Friend
	News     []models.News

	// UI state
	ActivePanel   Panel
	Cursor        map[Panel]int
	ShowHelp      bool
	Searching     bool
	SearchInput   textinput.Model
	ConfirmRemove *models.Friend
	Status        string
	LastRefresh   time.Time
	Err           error

	// Configuration
	RefreshInterval time.Duration

	sessionCh chan session.Session
}

// MinWidth is the minimum terminal width for proper display
const MinWidth = 40

// MinHeight is the minimum terminal height for proper display
const MinHeight = 15

// TickMsg triggers a data refresh
type TickMsg time.Time

// RefreshDataMsg carries refreshed data
type RefreshDataMsg struct {
	Viewer    *models.Profile
	People    []models.User
	Friends   people.IDSet
	Pending   people.IDSet
	Requests  []models.FriendRequest
	Friended  []models.Friend
	News      []models.News
	Err       error
	Timestamp time.Time
}

// SessionChangedMsg is sent when the session changes, in this process or
// another one sharing the session file.
type SessionChangedMsg session.Session

// ActionResultMsg reports the outcome of an explicit user action. Reload is
// false for friend requests, whose pending mark is applied locally.
type ActionResultMsg struct {
	Status string
	Err    error
	Reload bool
}

// NewModel creates a new dashboard model. The session subscription lives as
// long as the returned stop func is not called.
func NewModel(deps Deps, interval time.Duration) (Model, func()) {
	ti := textinput.New()
	ti.Placeholder = "search name or email"
	ti.CharLimit = 100
	ti.Width = 40

	ch := make(chan session.Session, 1)
	stop := deps.Session.Subscribe(func(s session.Session) {
		// Only the latest session matters.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	})

	m := Model{
		deps:            deps,
		Friends:         people.IDSet{},
		Pending:         people.IDSet{},
		Cursor:          make(map[Panel]int),
		ActivePanel:     PanelPeople,
		SearchInput:     ti,
		RefreshInterval: interval,
		sessionCh:       ch,
	}
	return m, stop
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchData(),
		m.scheduleTick(),
		m.waitForSession(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case TickMsg:
		return m, tea.Batch(m.fetchData(), m.scheduleTick())

	case SessionChangedMsg:
		s := session.Session(msg)
		if !s.Authenticated() {
			m.Status = "Signed out"
		} else if m.Viewer == nil || m.Viewer.ID != s.User.ID {
			m.Status = "Signed in as " + s.User.FullName()
		}
		m.Viewer = s.User
		return m, tea.Batch(m.fetchData(), m.waitForSession())

	case RefreshDataMsg:
		m.Viewer = msg.Viewer
		m.People = msg.People
		m.Friends = msg.Friends
		m.Pending = msg.Pending
		m.Requests = msg.Requests
		m.Friended = msg.Friended
		m.News = msg.News
		m.Err = msg.Err
		m.LastRefresh = msg.Timestamp
		m.clampCursors()
		return m, nil

	case ActionResultMsg:
		if msg.Err != nil {
			m.Status = msg.Status + ": " + msg.Err.Error()
		} else {
			m.Status = msg.Status
		}
		if !msg.Reload {
			m.Pending = m.deps.People.Pending()
			return m, nil
		}
		return m, m.fetchData()
	}

	return m, nil
}

// handleKey processes key input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search mode: forward most keys to textinput for cursor support
	if m.Searching {
		switch msg.String() {
		case "esc":
			m.Searching = false
			m.SearchInput.Blur()
			m.SearchInput.SetValue("")
			m.Cursor[PanelPeople] = 0
			return m, nil
		case "enter":
			m.Searching = false
			m.SearchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.SearchInput, cmd = m.SearchInput.Update(msg)
		m.Cursor[PanelPeople] = 0
		return m, cmd
	}

	if m.ConfirmRemove != nil {
		switch msg.String() {
		case "y", "enter":
			f := *m.ConfirmRemove
			m.ConfirmRemove = nil
			return m, m.removeFriend(f)
		case "n", "esc":
			m.ConfirmRemove = nil
			m.deps.Friends.CancelDelete()
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.ActivePanel = (m.ActivePanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.ActivePanel = (m.ActivePanel + panelCount - 1) % panelCount
		return m, nil

	case "1":
		m.ActivePanel = PanelPeople
		return m, nil

	case "2":
		m.ActivePanel = PanelRequests
		return m, nil

	case "3":
		m.ActivePanel = PanelFriends
		return m, nil

	case "4":
		m.ActivePanel = PanelNews
		return m, nil

	case "j", "down":
		if m.Cursor[m.ActivePanel] < m.rowCount(m.ActivePanel)-1 {
			m.Cursor[m.ActivePanel]++
		}
		return m, nil

	case "k", "up":
		if m.Cursor[m.ActivePanel] > 0 {
			m.Cursor[m.ActivePanel]--
		}
		return m, nil

	case "/":
		m.ActivePanel = PanelPeople
		m.Searching = true
		return m, m.SearchInput.Focus()

	case "a":
		switch m.ActivePanel {
		case PanelPeople:
			return m, m.addSelected()
		case PanelRequests:
			return m, m.answerSelected(true)
		}
		return m, nil

	case "d":
		if m.ActivePanel == PanelRequests {
			return m, m.answerSelected(false)
		}
		return m, nil

	case "x":
		if m.ActivePanel == PanelFriends {
			if f, ok := m.selectedFriend(); ok {
				m.deps.Friends.StageDelete(f.FriendID)
				m.ConfirmRemove = &f
			}
		}
		return m, nil

	case "r":
		return m, m.fetchData()

	case "?":
		m.ShowHelp = !m.ShowHelp
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	return m.renderView()
}

// VisiblePeople returns the people panel rows after the search filter.
func (m Model) VisiblePeople() []models.User {
	return people.Filter(m.People, m.SearchInput.Value())
}

// PendingRequests returns received requests still awaiting an answer.
func (m Model) PendingRequests() []models.FriendRequest {
	var out []models.FriendRequest
	for _, r := range m.Requests {
		if r.Status == models.RequestPending {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) rowCount(p Panel) int {
	switch p {
	case PanelPeople:
		return len(m.VisiblePeople())
	case PanelRequests:
		return len(m.PendingRequests())
	case PanelFriends:
		return len(m.Friended)
	case PanelNews:
		return len(m.News)
	}
	return 0
}

func (m *Model) clampCursors() {
	for p := Panel(0); p < panelCount; p++ {
		n := m.rowCount(p)
		if m.Cursor[p] >= n {
			m.Cursor[p] = n - 1
		}
		if m.Cursor[p] < 0 {
			m.Cursor[p] = 0
		}
	}
}

func (m Model) selectedUser() (models.User, bool) {
	rows := m.VisiblePeople()
	i := m.Cursor[PanelPeople]
	if i < 0 || i >= len(rows) {
		return models.User{}, false
	}
	return rows[i], true
}

func (m Model) selectedRequest() (models.FriendRequest, bool) {
	rows := m.PendingRequests()
	i := m.Cursor[PanelRequests]
	if i < 0 || i >= len(rows) {
		return models.FriendRequest{}, false
	}
	return rows[i], true
}

func (m Model) selectedFriend() (models.Friend, bool) {
	i := m.Cursor[PanelFriends]
	if i < 0 || i >= len(m.Friended) {
		return models.Friend{}, false
	}
	return m.Friended[i], true
}

// scheduleTick returns a command that sends a TickMsg after the refresh interval
func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForSession blocks until the next session change.
func (m Model) waitForSession() tea.Cmd {
	ch := m.sessionCh
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return SessionChangedMsg(s)
	}
}

// fetchData returns a command that fetches all data and sends a RefreshDataMsg
func (m Model) fetchData() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		return FetchData(context.Background(), deps)
	}
}

func (m Model) addSelected() tea.Cmd {
	u, ok := m.selectedUser()
	if !ok {
		return nil
	}
	if rel := people.LabelFor(m.Friends, m.Pending, u.ID); rel != models.RelationAddable {
		return func() tea.Msg { return ActionResultMsg{Status: u.FullName() + " is already " + string(rel)} }
	}
	dir := m.deps.People
	return func() tea.Msg {
		if err := dir.SendFriendRequest(context.Background(), u.ID); err != nil {
			return ActionResultMsg{Status: "Failed to send friend request", Err: err}
		}
		return ActionResultMsg{Status: "Friend request sent to " + u.FullName()}
	}
}

func (m Model) answerSelected(accept bool) tea.Cmd {
	r, ok := m.selectedRequest()
	if !ok {
		return nil
	}
	inbox := m.deps.Inbox
	return func() tea.Msg {
		if accept {
			if err := inbox.Accept(context.Background(), r.ID); err != nil {
				return ActionResultMsg{Status: "Failed to accept request", Err: err, Reload: true}
			}
			return ActionResultMsg{Status: "You and " + r.SenderName + " are now friends", Reload: true}
		}
		if err := inbox.Decline(context.Background(), r.ID); err != nil {
			return ActionResultMsg{Status: "Failed to decline request", Err: err, Reload: true}
		}
		return ActionResultMsg{Status: "Declined request from " + r.SenderName, Reload: true}
	}
}

func (m Model) removeFriend(f models.Friend) tea.Cmd {
	list := m.deps.Friends
	return func() tea.Msg {
		if err := list.Delete(context.Background()); err != nil {
			return ActionResultMsg{Status: "Failed to remove friend", Err: err, Reload: true}
		}
		return ActionResultMsg{Status: "Removed " + f.FullName(), Reload: true}
	}
}
