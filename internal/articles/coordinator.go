package articles

import (
	"context"
	"fmt"

	"articlegrip/internal/domain"
)

// PageFetcher loads one page of articles. Implementations must tolerate
// being called repeatedly for the same page.
type PageFetcher interface {
	Fetch(ctx context.Context, page int) ([]domain.Article, error)
}

// Outcome is the result of one fetch, tagged with the request that issued it
type Outcome struct {
	RequestID uint64
	Page      int
	Articles  []domain.Article
	Err       error
}

// Failed reports whether the fetch ended in an error
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Coordinator issues page fetches with switch-to-latest semantics: every
// new request cancels the one in flight, and outcomes carrying an older
// request id are rejected by Resolve. It is not safe for concurrent use;
// the facade drives it from its event loop.
type Coordinator struct {
	parent  context.Context
	fetcher PageFetcher
	deliver func(Outcome)

	latest        uint64
	page          int
	pending       bool
	awaitingRetry bool
	cancel        context.CancelFunc
}

// NewCoordinator creates a coordinator. deliver is called from the fetch
// goroutine once per issued request, superseded or not.
func NewCoordinator(parent context.Context, fetcher PageFetcher, deliver func(Outcome)) *Coordinator {
	return &Coordinator{
		parent:  parent,
		fetcher: fetcher,
		deliver: deliver,
	}
}

// Request starts a fetch for page and supersedes any outstanding one
func (c *Coordinator) Request(page int) domain.FetchStartedEvent {
	c.page = page
	return c.issue()
}

// Retry re-issues the fetch for the most recently requested page
func (c *Coordinator) Retry() domain.FetchStartedEvent {
	return c.issue()
}

// Resolve accepts an outcome if it answers the latest request. Outcomes of
// superseded requests return false and must be ignored.
func (c *Coordinator) Resolve(o Outcome) bool {
	if o.RequestID != c.latest {
		return false
	}
	c.pending = false
	c.awaitingRetry = o.Failed()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return true
}

// Page returns the most recently requested page
func (c *Coordinator) Page() int { return c.page }

// Pending reports whether the latest request has no outcome yet
func (c *Coordinator) Pending() bool { return c.pending }

// AwaitingRetry reports whether the latest request failed and nothing has
// been issued since
func (c *Coordinator) AwaitingRetry() bool { return c.awaitingRetry }

// LatestID returns the id of the most recently issued request
func (c *Coordinator) LatestID() uint64 { return c.latest }

// Stop cancels the outstanding fetch, if any
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.pending = false
}

func (c *Coordinator) issue() domain.FetchStartedEvent {
	if c.cancel != nil {
		c.cancel()
	}

	c.latest++
	id, page := c.latest, c.page
	ctx, cancel := context.WithCancel(c.parent)
	c.cancel = cancel
	c.pending = true
	c.awaitingRetry = false

	go c.run(ctx, id, page)

	return domain.FetchStartedEvent{Page: page, RequestID: id}
}

func (c *Coordinator) run(ctx context.Context, id uint64, page int) {
	out := Outcome{RequestID: id, Page: page}
	defer func() {
		if r := recover(); r != nil {
			out.Articles = nil
			out.Err = fmt.Errorf("fetcher panic: %v", r)
		}
		c.deliver(out)
	}()

	out.Articles, out.Err = c.fetcher.Fetch(ctx, page)
}
