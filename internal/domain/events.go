package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPageRequested  EventType = "PageRequested"
	EventRetryRequested EventType = "RetryRequested"
	EventFetchStarted   EventType = "FetchStarted"
	EventFetchSucceeded EventType = "FetchSucceeded"
	EventFetchFailed    EventType = "FetchFailed"
	EventFetchDiscarded EventType = "FetchDiscarded"
	EventFilterChanged  EventType = "FilterChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PageRequestedEvent is emitted when the user asks for another page
type PageRequestedEvent struct {
	Page int
}

func (e PageRequestedEvent) Type() EventType { return EventPageRequested }

// RetryRequestedEvent is emitted when the user asks to re-issue the current page
type RetryRequestedEvent struct {
	Page int
}

func (e RetryRequestedEvent) Type() EventType { return EventRetryRequested }

// FetchStartedEvent is emitted when a fetch is issued. RequestID grows
// monotonically for the lifetime of one list view.
type FetchStartedEvent struct {
	Page      int
	RequestID uint64
}

func (e FetchStartedEvent) Type() EventType { return EventFetchStarted }

// FetchSucceededEvent is emitted when the latest fetch returns articles
type FetchSucceededEvent struct {
	Page      int
	RequestID uint64
	Articles  []Article
}

func (e FetchSucceededEvent) Type() EventType { return EventFetchSucceeded }

// FetchFailedEvent is emitted when the latest fetch fails
type FetchFailedEvent struct {
	Page      int
	RequestID uint64
	Err       *FetchError
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// FetchDiscardedEvent is emitted when a superseded fetch completes and
// its outcome is dropped
type FetchDiscardedEvent struct {
	Page      int
	RequestID uint64
}

func (e FetchDiscardedEvent) Type() EventType { return EventFetchDiscarded }

// FilterChangedEvent is emitted when the filter text changes
type FilterChangedEvent struct {
	Filter string
}

func (e FilterChangedEvent) Type() EventType { return EventFilterChanged }
