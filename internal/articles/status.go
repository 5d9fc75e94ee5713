package articles

import "articlegrip/internal/domain"

// StatusState is the status/error pair derived from the fetch timeline
type StatusState struct {
	Status domain.Status
	Error  string
}

// StatusReducer folds fetch events into a StatusState. The most recent
// event wins; there is no other priority between event kinds.
type StatusReducer struct {
	// EmptyPageIsSuccess makes a successful fetch with zero articles move
	// the status to success. By default such a fetch leaves the status
	// where it was, so a real empty page stays "loading".
	EmptyPageIsSuccess bool
}

// Reduce returns the state after ev. Events that carry no status
// information return s unchanged.
func (r StatusReducer) Reduce(s StatusState, ev domain.DomainEvent) StatusState {
	switch ev := ev.(type) {
	case domain.FetchStartedEvent:
		s.Status = domain.StatusLoading

	case domain.FetchSucceededEvent:
		if len(ev.Articles) == 0 && !r.EmptyPageIsSuccess {
			return s
		}
		s.Status = domain.StatusSuccess
		s.Error = ""

	case domain.FetchFailedEvent:
		s.Status = domain.StatusError
		s.Error = domain.UnknownErrorMessage
		if ev.Err != nil && ev.Err.Message != "" {
			s.Error = ev.Err.Message
		}
	}
	return s
}
