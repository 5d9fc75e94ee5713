package modes

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"articlegrip/internal/ui/input/types"
)

type fakeContext struct {
	index  int
	total  int
	page   int
	url    string
	filter string
}

func (c fakeContext) CurrentIndex() int  { return c.index }
func (c fakeContext) TotalItems() int    { return c.total }
func (c fakeContext) CurrentPage() int   { return c.page }
func (c fakeContext) CurrentURL() string { return c.url }
func (c fakeContext) Filter() string     { return c.filter }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNormalModeKeys(t *testing.T) {
	ctx := fakeContext{page: 3, url: "https://example.com/a", filter: "go"}

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []types.Action
	}{
		{"down", runes("j"), []types.Action{types.NavigateAction{Direction: "down"}}},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, []types.Action{types.NavigateAction{Direction: "up"}}},
		{"bottom", runes("G"), []types.Action{types.NavigateAction{Direction: "end"}}},
		{"next page", runes("l"), []types.Action{types.PageAction{Page: 4}}},
		{"prev page", tea.KeyMsg{Type: tea.KeyLeft}, []types.Action{types.PageAction{Page: 2}}},
		{"retry", runes("r"), []types.Action{types.RetryAction{}}},
		{"filter seeds current text", runes("/"), []types.Action{types.ChangeModeAction{Mode: types.ModeFilter, Data: "go"}}},
		{"open", tea.KeyMsg{Type: tea.KeyEnter}, []types.Action{types.ShowURLAction{URL: "https://example.com/a"}}},
		{"pager", runes("v"), []types.Action{types.OpenPagerAction{}}},
		{"help", runes("?"), []types.Action{types.ToggleHelpAction{}}},
		{"quit", runes("q"), []types.Action{types.QuitAction{Force: false}}},
		{"force quit", tea.KeyMsg{Type: tea.KeyCtrlC}, []types.Action{types.QuitAction{Force: true}}},
		{"esc clears filter", tea.KeyMsg{Type: tea.KeyEsc}, []types.Action{types.UpdateTextAction{Text: ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewNormalMode(types.DefaultKeyMap())
			actions, consumed := m.HandleKey(tt.msg, ctx)
			assert.True(t, consumed)
			assert.Equal(t, tt.want, actions)
		})
	}
}

func TestNormalModePrevOnFirstPage(t *testing.T) {
	m := NewNormalMode(types.DefaultKeyMap())
	actions, consumed := m.HandleKey(runes("h"), fakeContext{page: 1})
	assert.True(t, consumed)
	assert.Empty(t, actions)
}

func TestNormalModeEscWithoutFilter(t *testing.T) {
	m := NewNormalMode(types.DefaultKeyMap())
	actions, consumed := m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, fakeContext{page: 1})
	assert.True(t, consumed)
	assert.Empty(t, actions)
}

func TestNormalModeOpenWithoutSelection(t *testing.T) {
	m := NewNormalMode(types.DefaultKeyMap())
	actions, consumed := m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, fakeContext{page: 1})
	assert.False(t, consumed)
	assert.Empty(t, actions)
}

func TestNormalModeDoubleG(t *testing.T) {
	m := NewNormalMode(types.DefaultKeyMap())
	ctx := fakeContext{page: 1}

	actions, consumed := m.HandleKey(runes("g"), ctx)
	assert.True(t, consumed)
	assert.Empty(t, actions)

	actions, _ = m.HandleKey(runes("g"), ctx)
	assert.Equal(t, []types.Action{types.NavigateAction{Direction: "home"}}, actions)

	// an interrupted sequence starts over
	m.HandleKey(runes("g"), ctx)
	m.HandleKey(runes("j"), ctx)
	actions, _ = m.HandleKey(runes("g"), ctx)
	assert.Empty(t, actions)
}

func TestNormalModeUnknownKey(t *testing.T) {
	m := NewNormalMode(types.DefaultKeyMap())
	actions, consumed := m.HandleKey(runes("x"), fakeContext{page: 1})
	assert.False(t, consumed)
	assert.Empty(t, actions)
}

func TestFilterModeSubmitAndCancel(t *testing.T) {
	ti := textinput.New()
	ti.SetValue("rust")
	m := NewFilterMode(&ti)
	assert.Equal(t, "filter", m.Name())
	assert.Equal(t, "Filter: ", m.Prompt())

	actions, consumed := m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, fakeContext{})
	require.True(t, consumed)
	assert.Equal(t, []types.Action{
		types.SubmitTextAction{Text: "rust", Mode: types.ModeFilter},
		types.ChangeModeAction{Mode: types.ModeNormal},
	}, actions)

	actions, consumed = m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, fakeContext{})
	require.True(t, consumed)
	assert.Equal(t, []types.Action{
		types.CancelTextAction{},
		types.ChangeModeAction{Mode: types.ModeNormal},
	}, actions)
}

func TestFilterModePassesTypingThrough(t *testing.T) {
	ti := textinput.New()
	m := NewFilterMode(&ti)
	actions, consumed := m.HandleKey(runes("a"), fakeContext{})
	assert.False(t, consumed)
	assert.Empty(t, actions)
}

func TestFilterModeEnterFocusesInput(t *testing.T) {
	ti := textinput.New()
	m := NewFilterMode(&ti)
	m.Enter(fakeContext{})
	assert.True(t, ti.Focused())
	m.Exit(fakeContext{})
	assert.False(t, ti.Focused())
}
