package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"articlegrip/internal/ui/input/types"
)

// FilterMode edits the live title filter. Every keystroke is applied
// immediately; enter keeps the text and esc clears it.
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}
