package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"articlegrip/internal/config"
	"articlegrip/internal/domain"
	"articlegrip/internal/logging"
	"articlegrip/internal/ui/input"
	inputtypes "articlegrip/internal/ui/input/types"
	"articlegrip/internal/ui/logic"
	"articlegrip/internal/ui/viewmodels"
	"articlegrip/internal/ui/views"
)

const statusMessageTTL = 3 * time.Second

// ListView is the part of the article list the UI drives
type ListView interface {
	SetPage(n int) error
	Retry() error
	SetFilterText(text string) error
	Snapshot() domain.ViewState
	SubscribeState(fn func(domain.ViewState)) func()
}

// Model represents the UI state
type Model struct {
	list  ListView
	state domain.ViewState // last committed list state

	// last page handed to the list that no committed state reports yet
	requestedPage int

	// UI-specific state
	width         int
	height        int
	selected      int
	offset        int
	showHelp      bool
	inPagerMode   bool
	statusMessage string
	statusID      int

	keys         inputtypes.KeyMap
	spinner      spinner.Model
	navigator    *logic.Navigator
	renderer     *views.Renderer
	viewModel    *viewmodels.ViewModel
	inputHandler *input.Handler
	pager        *PagerOps

	// Program reference for terminal management
	program     *tea.Program
	unsubscribe func()
}

// NewModel creates a new UI model over list
func NewModel(list ListView, settings config.UISettings) *Model {
	keys := inputtypes.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		list:         list,
		state:        list.Snapshot(),
		keys:         keys,
		spinner:      sp,
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(settings.ShowSource, settings.ShowAge),
		viewModel:    viewmodels.NewViewModel(keys),
		inputHandler: input.New(keys),
		pager:        NewPagerOps(),
	}
}

// SetProgram sets the program reference and starts forwarding committed
// list states into it
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.unsubscribe = m.list.SubscribeState(func(s domain.ViewState) {
		p.Send(stateMsg{state: s})
	})
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectedVisible()
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			return m, m.handleHelpKey(msg)
		}

		ctx := &input.ModelContext{State: m.state, Selected: m.selected, Page: m.requestedPage}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	m.viewModel.SetDimensions(m.width, m.height)
	m.viewModel.SetState(m.state)
	m.viewModel.SetSelection(m.selected, m.offset)
	m.viewModel.SetSpinner(m.spinner.View())
	m.viewModel.SetStatusMessage(m.statusMessage)
	m.viewModel.SetShowHelp(m.showHelp)
	m.viewModel.SetInputMode(m.inputHandler.GetMode(), m.inputHandler.TextInput())

	return m.renderer.Render(m.viewModel.BuildViewState())
}

// State returns the list state the model last rendered from
func (m *Model) State() domain.ViewState {
	return m.state
}

// Selected returns the index of the highlighted article
func (m *Model) Selected() int {
	return m.selected
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	logging.Debug("processAction", "action", action.Type())
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		switch a.Direction {
		case "up":
			m.moveSelection(-1)
		case "down":
			m.moveSelection(1)
		case "home":
			m.selectIndex(0)
		case "end":
			m.selectIndex(len(m.state.Articles) - 1)
		}

	case inputtypes.PageAction:
		if err := m.list.SetPage(a.Page); err != nil {
			return m.reportError(err)
		}
		m.requestedPage = a.Page

	case inputtypes.RetryAction:
		return m.reportError(m.list.Retry())

	case inputtypes.UpdateTextAction:
		return m.reportError(m.list.SetFilterText(a.Text))

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeFilter {
			return m.reportError(m.list.SetFilterText(a.Text))
		}

	case inputtypes.CancelTextAction:
		return m.reportError(m.list.SetFilterText(""))

	case inputtypes.ShowURLAction:
		return m.setStatus(a.URL)

	case inputtypes.OpenPagerAction:
		return m.openPager(RenderPageText(m.state, time.Now()))

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp

	case inputtypes.QuitAction:
		if m.unsubscribe != nil {
			m.unsubscribe()
			m.unsubscribe = nil
		}
		return tea.Quit
	}

	return nil
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return m.processAction(inputtypes.QuitAction{Force: true})
	case "?", "esc", "q":
		m.showHelp = false
	case "v":
		m.showHelp = false
		return m.openPager(RenderHelpText(m.keys))
	}
	return nil
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		if msg.state.CurrentPage != m.state.CurrentPage {
			m.selected = 0
			m.offset = 0
		}
		if msg.state.CurrentPage == m.requestedPage {
			m.requestedPage = 0
		}
		m.state = msg.state
		m.ensureSelectedVisible()
		return m, nil

	case spinner.TickMsg:
		// Don't continue the tick loop while the pager owns the terminal
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerMsg:
		m.inPagerMode = false
		var cmd tea.Cmd
		if msg.err != nil {
			logging.Warn("pager failed", "err", msg.err)
			cmd = m.setStatus("Pager failed: " + msg.err.Error())
		}
		return m, tea.Batch(cmd, m.spinner.Tick)

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMessage = ""
		}
		return m, nil

	default:
		return m, nil
	}
}

func (m *Model) openPager(content string) tea.Cmd {
	if m.program == nil {
		return m.setStatus("Pager unavailable")
	}
	m.inPagerMode = true
	return func() tea.Msg {
		return pagerMsg{err: m.pager.Show(content)}
	}
}

// setStatus shows msg in the status line for a few seconds
func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusID++
	m.statusMessage = msg
	id := m.statusID
	return tea.Tick(statusMessageTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m *Model) reportError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	logging.Warn("list request rejected", "err", err)
	return m.setStatus(err.Error())
}

func (m *Model) syncNavigatorState() {
	m.navigator.UpdateState(m.selected, m.offset, views.ListHeight(m.height), len(m.state.Articles))
}

func (m *Model) moveSelection(delta int) {
	m.syncNavigatorState()
	m.selected, m.offset = m.navigator.Move(delta)
}

func (m *Model) selectIndex(index int) {
	m.syncNavigatorState()
	m.selected, m.offset = m.navigator.SetSelectedIndex(index)
}

// ensureSelectedVisible keeps the selection inside the list and the viewport
func (m *Model) ensureSelectedVisible() {
	m.selectIndex(m.selected)
}
