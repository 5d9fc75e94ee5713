package articles

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"articlegrip/internal/domain"
	"articlegrip/internal/eventbus"
	"articlegrip/internal/logging"
)

var (
	// ErrInvalidPage is returned by SetPage for pages below 1
	ErrInvalidPage = errors.New("page must be a positive integer")
	// ErrClosed is returned by the sinks once the facade has been closed
	ErrClosed = errors.New("article list is closed")
	// ErrAlreadyStarted is returned by a second call to Start
	ErrAlreadyStarted = errors.New("article list already started")
)

// FirstPage is requested once when the facade starts
const FirstPage = 1

// event is one entry of the serialized queue
type event interface{}

type pageEvent struct{ page int }

type retryEvent struct{}

type filterEvent struct{ text string }

type outcomeEvent struct{ outcome Outcome }

// Option configures a Facade
type Option func(*Facade)

// WithEventBus publishes every domain event of the list to bus
func WithEventBus(bus eventbus.EventBus) Option {
	return func(f *Facade) { f.bus = bus }
}

// WithLogger sets the logger used for fetch lifecycle messages
func WithLogger(logger *log.Logger) Option {
	return func(f *Facade) { f.logger = logger }
}

// WithEmptyPageIsSuccess treats a successful fetch of zero articles as success
func WithEmptyPageIsSuccess(enabled bool) Option {
	return func(f *Facade) { f.reducer.EmptyPageIsSuccess = enabled }
}

// Facade composes the coordinator, the status reducer and the filter
// projection into one observable ViewState. All state is derived from the
// three sinks (SetPage, Retry, SetFilterText) and from fetch outcomes,
// processed one at a time by a single goroutine.
type Facade struct {
	fetcher PageFetcher
	bus     eventbus.EventBus
	logger  *log.Logger
	reducer StatusReducer

	// queue
	qmu    sync.Mutex
	queue  []event
	wake   chan struct{}
	closed bool

	// loop-owned
	coord    *Coordinator
	lastGood []domain.Article
	status   StatusState
	filter   string

	// committed state
	stateMu  sync.RWMutex
	snapshot domain.ViewState

	articles    *Observable[[]domain.Article]
	filterObs   *Observable[string]
	errorObs    *Observable[string]
	statusObs   *Observable[domain.Status]
	currentPage *Observable[int]
	stateObs    *Observable[domain.ViewState]

	// set while the loop runs subscriber callbacks
	notifying atomic.Bool

	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a facade in its initial state: page 1, no articles,
// status loading, no error, no filter. Nothing is fetched until Start.
func New(fetcher PageFetcher, opts ...Option) *Facade {
	f := &Facade{
		fetcher: fetcher,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		snapshot: domain.ViewState{
			Articles:    []domain.Article{},
			Status:      domain.StatusLoading,
			CurrentPage: FirstPage,
		},
		lastGood: []domain.Article{},
		status:   StatusState{Status: domain.StatusLoading},
	}

	f.articles = newObservable[[]domain.Article]([]domain.Article{}, nil)
	f.filterObs = newComparable("")
	f.errorObs = newComparable("")
	f.statusObs = newComparable(domain.StatusLoading)
	f.currentPage = newComparable(FirstPage)
	f.stateObs = newObservable[domain.ViewState](f.snapshot, nil)

	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.WithPrefix("articles")
	}
	return f
}

// Start issues the initial fetch of page 1 and begins processing events.
// Cancelling ctx has the same effect as Close.
func (f *Facade) Start(ctx context.Context) error {
	err := ErrAlreadyStarted
	f.startOnce.Do(func() {
		err = nil
		ctx, f.cancel = context.WithCancel(ctx)
		f.coord = NewCoordinator(ctx, f.fetcher, func(o Outcome) {
			f.enqueue(outcomeEvent{outcome: o})
		})
		go f.run(ctx)
	})
	return err
}

// Close stops the event loop, cancels the in-flight fetch and drops all
// subscribers. It blocks until the loop has exited, except when called
// while subscribers are being notified: callbacks run on the loop, so
// Close returns at once and the loop stops after the callback returns.
func (f *Facade) Close() {
	f.closeOnce.Do(func() {
		f.markClosed()

		// never started: there is no loop to wait for
		f.startOnce.Do(func() { close(f.done) })
		if f.cancel != nil {
			f.cancel()
		}
		if f.notifying.Load() {
			return
		}
		<-f.done
		f.clearSubscribers()
	})
}

func (f *Facade) markClosed() {
	f.qmu.Lock()
	defer f.qmu.Unlock()
	f.closed = true
	f.queue = nil
}

// Done is closed when the event loop has exited
func (f *Facade) Done() <-chan struct{} {
	return f.done
}

// SetPage requests page n. The current page changes immediately on
// processing, independent of the fetch outcome.
func (f *Facade) SetPage(n int) error {
	if n < FirstPage {
		return ErrInvalidPage
	}
	return f.enqueue(pageEvent{page: n})
}

// Retry re-issues the fetch for the most recently requested page
func (f *Facade) Retry() error {
	return f.enqueue(retryEvent{})
}

// SetFilterText changes the live filter. The empty string clears it.
func (f *Facade) SetFilterText(text string) error {
	return f.enqueue(filterEvent{text: text})
}

// Articles is the filtered list of the last successful fetch
func (f *Facade) Articles() *Observable[[]domain.Article] { return f.articles }

// Filter is the active filter text, empty for none
func (f *Facade) Filter() *Observable[string] { return f.filterObs }

// Error is the message of the last failure, empty for none
func (f *Facade) Error() *Observable[string] { return f.errorObs }

// Status is the derived loading status
func (f *Facade) Status() *Observable[domain.Status] { return f.statusObs }

// CurrentPage is the most recently requested page
func (f *Facade) CurrentPage() *Observable[int] { return f.currentPage }

// Snapshot returns a consistent copy of the whole view state
func (f *Facade) Snapshot() domain.ViewState {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	s := f.snapshot
	s.Articles = append([]domain.Article{}, f.snapshot.Articles...)
	return s
}

// SubscribeState calls fn with a snapshot after every processed event that
// changed the view state
func (f *Facade) SubscribeState(fn func(domain.ViewState)) func() {
	return f.stateObs.Subscribe(fn)
}

func (f *Facade) enqueue(ev event) error {
	f.qmu.Lock()
	if f.closed {
		f.qmu.Unlock()
		return ErrClosed
	}
	f.queue = append(f.queue, ev)
	f.qmu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
	return nil
}

func (f *Facade) drain() []event {
	f.qmu.Lock()
	defer f.qmu.Unlock()
	evs := f.queue
	f.queue = nil
	return evs
}

func (f *Facade) run(ctx context.Context) {
	defer close(f.done)
	defer f.clearSubscribers()
	defer f.coord.Stop()
	defer f.markClosed()

	f.startFetch(f.coord.Request(FirstPage))
	f.commit()

	for {
		select {
		case <-ctx.Done():
			f.logger.Debug("event loop stopped")
			return
		case <-f.wake:
			for _, ev := range f.drain() {
				if ctx.Err() != nil {
					return
				}
				f.step(ev)
				f.commit()
			}
		}
	}
}

// step applies one event to the loop-owned state
func (f *Facade) step(ev event) {
	switch ev := ev.(type) {
	case pageEvent:
		f.publish(domain.PageRequestedEvent{Page: ev.page})
		f.startFetch(f.coord.Request(ev.page))

	case retryEvent:
		f.publish(domain.RetryRequestedEvent{Page: f.coord.Page()})
		f.startFetch(f.coord.Retry())

	case filterEvent:
		if ev.text == f.filter {
			return
		}
		f.filter = ev.text
		f.publish(domain.FilterChangedEvent{Filter: ev.text})

	case outcomeEvent:
		f.resolve(ev.outcome)
	}
}

func (f *Facade) startFetch(started domain.FetchStartedEvent) {
	f.logger.Debug("fetch started", "page", started.Page, "request", started.RequestID)
	f.status = f.reducer.Reduce(f.status, started)
	f.publish(started)
}

func (f *Facade) resolve(o Outcome) {
	if !f.coord.Resolve(o) {
		f.logger.Debug("discarding superseded fetch", "page", o.Page, "request", o.RequestID)
		f.publish(domain.FetchDiscardedEvent{Page: o.Page, RequestID: o.RequestID})
		return
	}

	var ev domain.DomainEvent
	if o.Failed() {
		fetchErr := asFetchError(o.Page, o.Err)
		f.logger.Warn("fetch failed", "page", o.Page, "request", o.RequestID, "err", fetchErr.Message)
		ev = domain.FetchFailedEvent{Page: o.Page, RequestID: o.RequestID, Err: fetchErr}
	} else {
		f.logger.Debug("fetch succeeded", "page", o.Page, "request", o.RequestID, "count", len(o.Articles))
		f.lastGood = append([]domain.Article{}, o.Articles...)
		ev = domain.FetchSucceededEvent{Page: o.Page, RequestID: o.RequestID, Articles: o.Articles}
	}

	f.status = f.reducer.Reduce(f.status, ev)
	f.publish(ev)
}

// commit publishes the loop-owned state to the observables and then
// notifies subscribers
func (f *Facade) commit() {
	next := domain.ViewState{
		Articles:    Project(f.lastGood, f.filter),
		Filter:      f.filter,
		Error:       f.status.Error,
		Status:      f.status.Status,
		CurrentPage: f.coord.Page(),
	}

	f.stateMu.Lock()
	prev := f.snapshot
	f.snapshot = next
	f.stateMu.Unlock()

	if !sameArticles(prev.Articles, next.Articles) {
		f.articles.set(next.Articles)
	}
	f.filterObs.set(next.Filter)
	f.errorObs.set(next.Error)
	f.statusObs.set(next.Status)
	f.currentPage.set(next.CurrentPage)
	if !sameState(prev, next) {
		f.stateObs.set(next)
	}

	f.notifying.Store(true)
	defer f.notifying.Store(false)

	f.articles.flush()
	f.filterObs.flush()
	f.errorObs.flush()
	f.statusObs.flush()
	f.currentPage.flush()
	f.stateObs.flush()
}

func (f *Facade) publish(ev domain.DomainEvent) {
	if f.bus != nil {
		f.bus.Publish(ev)
	}
}

func (f *Facade) clearSubscribers() {
	f.articles.clear()
	f.filterObs.clear()
	f.errorObs.clear()
	f.statusObs.clear()
	f.currentPage.clear()
	f.stateObs.clear()
}

func asFetchError(page int, err error) *domain.FetchError {
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		return domain.NewFetchError(page, err)
	}
	if fe.Message == "" {
		fixed := *fe
		fixed.Message = domain.UnknownErrorMessage
		return &fixed
	}
	return fe
}

func sameArticles(a, b []domain.Article) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameState(a, b domain.ViewState) bool {
	return a.Filter == b.Filter &&
		a.Error == b.Error &&
		a.Status == b.Status &&
		a.CurrentPage == b.CurrentPage &&
		sameArticles(a.Articles, b.Articles)
}
