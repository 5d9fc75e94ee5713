package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"articlegrip/internal/domain"
	"articlegrip/internal/ui/input/types"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newContext(filter string) *ModelContext {
	return &ModelContext{
		State: domain.ViewState{
			Articles: []domain.Article{
				{ID: "1", Title: "Alpha", URL: "https://example.com/alpha"},
				{ID: "2", Title: "Beta", URL: "https://example.com/beta"},
			},
			Filter:      filter,
			CurrentPage: 2,
		},
		Selected: 1,
	}
}

func TestModelContext(t *testing.T) {
	ctx := newContext("be")
	assert.Equal(t, 1, ctx.CurrentIndex())
	assert.Equal(t, 2, ctx.TotalItems())
	assert.Equal(t, 2, ctx.CurrentPage())
	assert.Equal(t, "https://example.com/beta", ctx.CurrentURL())
	assert.Equal(t, "be", ctx.Filter())

	ctx.Selected = 5
	assert.Empty(t, ctx.CurrentURL())

	ctx.Page = 4
	assert.Equal(t, 4, ctx.CurrentPage(), "a pending request wins over the committed page")
}

func TestHandlerNormalModeActions(t *testing.T) {
	h := New(types.DefaultKeyMap())
	actions, _ := h.HandleKey(runes("l"), newContext(""))
	assert.Equal(t, []types.Action{types.PageAction{Page: 3}}, actions)

	actions, _ = h.HandleKey(runes("x"), newContext(""))
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeNormal, h.GetMode())
	assert.Nil(t, h.TextInput())
}

func TestHandlerFilterTypingUpdatesLive(t *testing.T) {
	h := New(types.DefaultKeyMap())
	ctx := newContext("")

	_, cmd := h.HandleKey(runes("/"), ctx)
	assert.NotNil(t, cmd)
	require.Equal(t, types.ModeFilter, h.GetMode())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "Filter: ", h.Prompt())

	actions, _ := h.HandleKey(runes("g"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "g"}}, actions)

	actions, _ = h.HandleKey(runes("o"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "go"}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace}, ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "g"}}, actions)

	// cursor movement leaves the text alone
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyLeft}, ctx)
	assert.Empty(t, actions)
}

func TestHandlerFilterModeSeedsExistingFilter(t *testing.T) {
	h := New(types.DefaultKeyMap())
	h.HandleKey(runes("/"), newContext("rust"))
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "rust", h.TextInput().Value())
}

func TestHandlerFilterSubmit(t *testing.T) {
	h := New(types.DefaultKeyMap())
	ctx := newContext("")
	h.HandleKey(runes("/"), ctx)
	h.HandleKey(runes("a"), ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Equal(t, []types.Action{types.SubmitTextAction{Text: "a", Mode: types.ModeFilter}}, actions)
	assert.Equal(t, types.ModeNormal, h.GetMode())
	assert.Empty(t, h.Prompt())
}

func TestHandlerFilterCancel(t *testing.T) {
	h := New(types.DefaultKeyMap())
	ctx := newContext("")
	h.HandleKey(runes("/"), ctx)
	h.HandleKey(runes("a"), ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.CancelTextAction{}}, actions)
	assert.Equal(t, types.ModeNormal, h.GetMode())
}

func TestHandlerReset(t *testing.T) {
	h := New(types.DefaultKeyMap())
	h.HandleKey(runes("/"), newContext(""))
	h.Reset()
	assert.Equal(t, types.ModeNormal, h.GetMode())
	assert.Nil(t, h.TextInput())
}
