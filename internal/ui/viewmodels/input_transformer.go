package viewmodels

import (
	"github.com/charmbracelet/bubbles/textinput"

	"articlegrip/internal/ui/input/types"
)

// InputTransformer turns the active input mode into prompt and input text
type InputTransformer struct {
	mode      types.Mode
	textInput *textinput.Model
}

// NewInputTransformer creates a new input transformer
func NewInputTransformer() *InputTransformer {
	return &InputTransformer{mode: types.ModeNormal}
}

// SetMode sets the current input mode and the text input shown for it
func (it *InputTransformer) SetMode(mode types.Mode, ti *textinput.Model) {
	it.mode = mode
	it.textInput = ti
}

// Prompt returns the label shown in front of the input line
func (it *InputTransformer) Prompt() string {
	switch it.mode {
	case types.ModeFilter:
		return "Filter: "
	default:
		return ""
	}
}

// InputText returns the rendered text input, or "" in normal mode
func (it *InputTransformer) InputText() string {
	if it.mode == types.ModeNormal || it.textInput == nil {
		return ""
	}
	return it.textInput.View()
}
