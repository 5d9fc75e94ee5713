package input

import "articlegrip/internal/domain"

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State    domain.ViewState
	Selected int
	// Page overrides State.CurrentPage while a page request is in flight
	Page int
}

// CurrentIndex returns the current selected index
func (c *ModelContext) CurrentIndex() int {
	return c.Selected
}

// TotalItems returns the number of visible articles
func (c *ModelContext) TotalItems() int {
	return len(c.State.Articles)
}

func (c *ModelContext) CurrentPage() int {
	if c.Page > 0 {
		return c.Page
	}
	return c.State.CurrentPage
}

// CurrentURL returns the link of the selected article
func (c *ModelContext) CurrentURL() string {
	if c.Selected < 0 || c.Selected >= len(c.State.Articles) {
		return ""
	}
	return c.State.Articles[c.Selected].URL
}

func (c *ModelContext) Filter() string {
	return c.State.Filter
}
