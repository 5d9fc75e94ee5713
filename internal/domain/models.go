package domain

import (
	"fmt"
	"time"
)

// Article is one entry of a fetched page. Only Title is inspected by the
// list core; the other fields are carried through for rendering.
type Article struct {
	ID          string
	Title       string
	URL         string
	Source      string
	Summary     string
	PublishedAt time.Time
}

// Status is the derived loading state of the list view
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// FetchError is the only error kind surfaced by the list core.
// Message is what the user sees; Err keeps the underlying cause.
type FetchError struct {
	Page    int
	Message string
	Err     error
}

// UnknownErrorMessage stands in for errors that carry no text, so a
// failed fetch always has a message to show
const UnknownErrorMessage = "unknown error"

// NewFetchError wraps err for the given page
func NewFetchError(page int, err error) *FetchError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = UnknownErrorMessage
	}
	return &FetchError{Page: page, Message: msg, Err: err}
}

func (e *FetchError) Error() string { return e.Message }

func (e *FetchError) Unwrap() error { return e.Err }

// ViewState is the complete externally observable state of the list view.
// Filter and Error use the empty string for "none".
type ViewState struct {
	Articles    []Article
	Filter      string
	Error       string
	Status      Status
	CurrentPage int
}

// HasFilter reports whether a non-empty filter is applied
func (v ViewState) HasFilter() bool {
	return v.Filter != ""
}
