package ui

import (
	"articlegrip/internal/domain"
)

// stateMsg carries a committed list state into the Bubble Tea loop
type stateMsg struct {
	state domain.ViewState
}

// pagerMsg contains the result of a pager session
type pagerMsg struct {
	err error
}

// clearStatusMsg drops a transient status message if it is still the current one
type clearStatusMsg struct {
	id int
}
