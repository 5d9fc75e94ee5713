package cli

import (
	"context"
	"fmt"
	"time"

	"articlegrip/internal/articles"
	"articlegrip/internal/config"
	"articlegrip/internal/domain"
	"articlegrip/internal/eventbus"
	"articlegrip/internal/fetch"
	"articlegrip/internal/logging"
	"articlegrip/internal/store"
)

const (
	busCapacity  = 256
	archiveWrite = 5 * time.Second
)

// app holds the wired article list and what it depends on
type app struct {
	list    *articles.Facade
	bus     eventbus.EventBus
	archive *store.Store
}

// newApp wires the page source, the event bus and the optional archive
// into an article list. The list is not started.
func newApp(cfg *config.Config, opts ...articles.Option) (*app, error) {
	a := &app{bus: eventbus.New(busCapacity)}

	if cfg.Archive.Enabled || cfg.Source.Kind == config.SourceArchive {
		archive, err := store.Open(cfg.Archive.Path)
		if err != nil {
			a.bus.Close()
			return nil, fmt.Errorf("opening archive: %w", err)
		}
		a.archive = archive
	}

	// a nil *store.Store must not become a non-nil interface
	var reader fetch.PageReader
	if a.archive != nil {
		reader = a.archive
	}
	fetcher, err := fetch.NewFromConfig(cfg.Source, reader)
	if err != nil {
		a.close()
		return nil, err
	}

	a.subscribeLogging()
	if a.archive != nil && cfg.Source.Kind != config.SourceArchive {
		a.subscribeArchive()
	}

	opts = append([]articles.Option{
		articles.WithEventBus(a.bus),
		articles.WithEmptyPageIsSuccess(cfg.Source.EmptyPageIsSuccess),
	}, opts...)
	a.list = articles.New(fetcher, opts...)
	return a, nil
}

func (a *app) subscribeLogging() {
	logger := logging.WithPrefix("events")
	a.bus.Subscribe(eventbus.EventPageRequested, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.PageRequestedEvent); ok {
			logger.Info("page requested", "page", ev.Page)
		}
	})
	a.bus.Subscribe(eventbus.EventRetryRequested, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.RetryRequestedEvent); ok {
			logger.Info("retry requested", "page", ev.Page)
		}
	})
	a.bus.Subscribe(eventbus.EventFetchFailed, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.FetchFailedEvent); ok {
			logger.Warn("page failed", "page", ev.Page, "err", ev.Err.Message)
		}
	})
}

// subscribeArchive stores every successfully fetched page
func (a *app) subscribeArchive() {
	a.bus.Subscribe(eventbus.EventFetchSucceeded, func(e eventbus.DomainEvent) {
		ev, ok := e.(eventbus.FetchSucceededEvent)
		if !ok || len(ev.Articles) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), archiveWrite)
		defer cancel()
		if err := a.archive.SaveArticles(ctx, ev.Articles); err != nil {
			logging.Warn("archiving page failed", "page", ev.Page, "err", err)
			return
		}
		logging.Debug("archived page", "page", ev.Page, "count", len(ev.Articles))
	})
}

// close shuts the list down before the bus so no event is lost, then
// closes the archive
func (a *app) close() {
	if a.list != nil {
		a.list.Close()
	}
	a.bus.Close()
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			logging.Warn("closing archive", "err", err)
		}
	}
}

// waitSettled blocks until the list shows page settled with a fetch
// outcome: success or error
func waitSettled(ctx context.Context, list *articles.Facade, page int) (domain.ViewState, error) {
	settled := make(chan domain.ViewState, 1)
	check := func(s domain.ViewState) {
		if s.CurrentPage == page && s.Status != domain.StatusLoading {
			select {
			case settled <- s:
			default:
			}
		}
	}
	unsubscribe := list.SubscribeState(check)
	defer unsubscribe()
	check(list.Snapshot())

	select {
	case s := <-settled:
		return s, nil
	case <-ctx.Done():
		return list.Snapshot(), ctx.Err()
	case <-list.Done():
		return list.Snapshot(), articles.ErrClosed
	}
}
