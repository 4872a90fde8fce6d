package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/config"
	"github.com/five82/promofinder/internal/logtail"
	"github.com/five82/promofinder/internal/prefs"
	"github.com/five82/promofinder/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Config    config.Config
	Logger    zerolog.Logger
	LogPath   string
	ThemeName string
	PrefsPath string

	// Now overrides the clock used for expiry display.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	cfg       config.Config
	logger    zerolog.Logger
	logPath   string
	prefsPath string
	now       func() time.Time
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	flash       string

	// Data state
	snapshot state.State
	filtered *state.FilteredView
	visible  []catalog.Promotion
	loading  bool
	spinner  spinner.Model

	// Catalog state
	selectedRow int
	search      searchState
	modal       Modal

	// toastSeq identifies the notification currently on screen so a hide
	// timer scheduled for an earlier one is ignored.
	toastSeq int

	// Log state
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error
}

type searchState struct {
	active bool
	query  string
	input  textinput.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "Search promotions..."
	ti.Prompt = "/"
	ti.CharLimit = 60

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		cfg:         opts.Config,
		logger:      opts.Logger,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		now:         now,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewCatalog,
		filtered:    &state.FilteredView{},
		spinner:     sp,
		search:      searchState{input: ti},
		logViewport: viewport.New(0, 0),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCmd(m.ctx, m.store), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadDoneMsg:
		m.loading = false
		m.refresh()
		if m.snapshot.LoadingStatus != state.StatusSucceeded {
			return m, nil
		}
		return m, arrivalCmd(m.cfg.ArrivalDelay())

	case specialArrivedMsg:
		return m.handleSpecialArrived()

	case toastExpiredMsg:
		if msg.seq == m.toastSeq && m.snapshot.SpecialPromotionNotification != nil {
			m.dismissToast()
		}
		return m, nil

	case logsLoadedMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
			m.refresh()
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.search.active {
		return m.handleSearchInput(msg)
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The toast captures confirm and escape while it is visible.
	if m.snapshot.SpecialPromotionNotification != nil &&
		key.Matches(msg, m.keys.Confirm, m.keys.Escape) {
		m.dismissToast()
		return m, nil
	}

	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewCatalog
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.refreshLogs()
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleCatalogKey(msg)
	}
}

// handleCatalogKey processes keyboard input for the catalog view.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Retry):
		if m.snapshot.LoadingStatus != state.StatusFailed || m.loading {
			return m, nil
		}
		m.loading = true
		m.logger.Info().Msg("retrying initial load")
		return m, tea.Batch(loadCmd(m.ctx, m.store), m.spinner.Tick)

	case key.Matches(msg, m.keys.NextCategory):
		m.cycleCategory(1)
	case key.Matches(msg, m.keys.PrevCategory):
		m.cycleCategory(-1)
	case key.Matches(msg, m.keys.NextStore):
		m.cycleStore(1)
	case key.Matches(msg, m.keys.PrevStore):
		m.cycleStore(-1)

	case key.Matches(msg, m.keys.Distance):
		m.modal = newDistanceModal(m.store, m.snapshot.Filters, m.cfg.Location)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ClearFilters):
		m.clearFilters()

	case key.Matches(msg, m.keys.Search):
		m.search.active = true
		m.search.input.SetValue(m.search.query)
		m.search.input.CursorEnd()
		return m, m.search.input.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.search.query != "" {
			m.search.query = ""
			m.refresh()
		}

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveSelection(maxInt(1, m.listHeight()/2))
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveSelection(-maxInt(1, m.listHeight()/2))
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = maxInt(0, len(m.visible)-1)
	}
	return m, nil
}

// handleSearchInput routes keys to the search box while it has focus.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.search.active = false
		m.search.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.query = ""
		m.search.input.SetValue("")
		m.search.input.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	m.search.query = m.search.input.Value()
	m.refresh()
	return m, cmd
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		m.logger.Warn().Err(err).Msg("save preferences")
	}
}

func (m *Model) moveSelection(delta int) {
	if len(m.visible) == 0 {
		m.selectedRow = 0
		return
	}
	m.selectedRow += delta
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if m.selectedRow >= len(m.visible) {
		m.selectedRow = len(m.visible) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// refresh re-reads the store and recomputes the visible list.
func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	m.snapshot = m.store.Snapshot()
	filtered := m.filtered.Select(m.snapshot)

	query := strings.TrimSpace(m.search.query)
	if query == "" {
		m.visible = filtered
	} else {
		m.visible = make([]catalog.Promotion, 0, len(filtered))
		for _, p := range filtered {
			if containsFolded(p.Title, query) || containsFolded(p.Description, query) {
				m.visible = append(m.visible, p)
			}
		}
	}
	m.clampSelection()
}

func (m Model) isLoading() bool {
	if m.loading {
		return true
	}
	switch m.snapshot.LoadingStatus {
	case state.StatusIdle, state.StatusLoading:
		return true
	}
	return false
}

func (m Model) selectedPromotion() (catalog.Promotion, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.visible) {
		return catalog.Promotion{}, false
	}
	return m.visible[m.selectedRow], true
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderFilterBar())
		b.WriteString("\n")
		b.WriteString(m.renderCatalog())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// Messages

type loadDoneMsg struct{}

type specialArrivedMsg struct{}

type toastExpiredMsg struct{ seq int }

type logsLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func loadCmd(ctx context.Context, store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		store.FetchInitialData(ctx)
		return loadDoneMsg{}
	}
}

func arrivalCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return specialArrivedMsg{}
	})
}

func toastExpiryCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
