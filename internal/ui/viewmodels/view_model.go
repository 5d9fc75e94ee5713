package viewmodels

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"articlegrip/internal/domain"
	"articlegrip/internal/ui/input/types"
	"articlegrip/internal/ui/views"
)

// ViewModel transforms the list state and UI-only state into view-ready data
type ViewModel struct {
	state            domain.ViewState
	width            int
	height           int
	selected         int
	offset           int
	help             help.Model
	keys             types.KeyMap
	spinner          string
	statusMessage    string
	showHelp         bool
	inputTransformer *InputTransformer
}

// NewViewModel creates a new view model
func NewViewModel(keys types.KeyMap) *ViewModel {
	return &ViewModel{
		keys:             keys,
		help:             help.New(),
		inputTransformer: NewInputTransformer(),
	}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
	vm.help.Width = width
}

// SetState replaces the list state
func (vm *ViewModel) SetState(state domain.ViewState) {
	vm.state = state
}

// SetSelection sets the selected row and the first visible row
func (vm *ViewModel) SetSelection(selected, offset int) {
	vm.selected = selected
	vm.offset = offset
}

// SetSpinner sets the current spinner frame
func (vm *ViewModel) SetSpinner(frame string) {
	vm.spinner = frame
}

// SetStatusMessage sets a transient message shown in the status line
func (vm *ViewModel) SetStatusMessage(msg string) {
	vm.statusMessage = msg
}

// SetShowHelp toggles the help popup
func (vm *ViewModel) SetShowHelp(show bool) {
	vm.showHelp = show
}

// SetInputMode sets the current input mode
func (vm *ViewModel) SetInputMode(mode types.Mode, ti *textinput.Model) {
	vm.inputTransformer.SetMode(mode, ti)
}

// BuildViewState creates a ViewState for rendering
func (vm *ViewModel) BuildViewState() views.ViewState {
	return views.ViewState{
		Width:          vm.width,
		Height:         vm.height,
		Articles:       vm.state.Articles,
		Filter:         vm.state.Filter,
		Error:          vm.state.Error,
		Status:         vm.state.Status,
		Page:           vm.state.CurrentPage,
		SelectedIndex:  vm.selected,
		ViewportOffset: vm.offset,
		ViewportHeight: views.ListHeight(vm.height),
		Spinner:        vm.spinner,
		StatusMessage:  vm.statusMessage,
		InputPrompt:    vm.inputTransformer.Prompt(),
		TextInput:      vm.inputTransformer.InputText(),
		ShowHelp:       vm.showHelp,
		HelpModel:      vm.help,
		Keys:           vm.keys,
	}
}
