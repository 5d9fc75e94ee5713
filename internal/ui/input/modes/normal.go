package modes

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"articlegrip/internal/ui/input/types"
)

const ggTimeout = 500 * time.Millisecond

type NormalMode struct {
	keys        types.KeyMap
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.String() == "g" {
		if m.lastKeyWasG && time.Since(m.lastGTime) < ggTimeout {
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true
	}
	// any other key cancels the g prefix
	m.lastKeyWasG = false

	switch {
	case msg.Type == tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{Force: false}}, true

	case key.Matches(msg, m.keys.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, m.keys.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, m.keys.Top):
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case key.Matches(msg, m.keys.Bottom):
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case key.Matches(msg, m.keys.Prev):
		// no page before the first one
		if ctx.CurrentPage() <= 1 {
			return nil, true
		}
		return []types.Action{types.PageAction{Page: ctx.CurrentPage() - 1}}, true

	case key.Matches(msg, m.keys.Next):
		return []types.Action{types.PageAction{Page: ctx.CurrentPage() + 1}}, true

	case key.Matches(msg, m.keys.Retry):
		return []types.Action{types.RetryAction{}}, true

	case key.Matches(msg, m.keys.Filter):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter, Data: ctx.Filter()}}, true

	case key.Matches(msg, m.keys.Open):
		if url := ctx.CurrentURL(); url != "" {
			return []types.Action{types.ShowURLAction{URL: url}}, true
		}
		return nil, false

	case key.Matches(msg, m.keys.Pager):
		return []types.Action{types.OpenPagerAction{}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true

	case msg.Type == tea.KeyEsc:
		// Esc drops an applied filter
		if ctx.Filter() != "" {
			return []types.Action{types.UpdateTextAction{Text: ""}}, true
		}
		return nil, true
	}

	return nil, false
}
