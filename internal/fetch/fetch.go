// Package fetch provides the page sources behind the article list.
//
// Every source answers Fetch(ctx, page) for a 1-based page and may be asked
// for the same page any number of times. Sources never cache; a repeated
// request hits the network again.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"articlegrip/internal/domain"
)

const (
	userAgent = "articlegrip/1.0"

	// PagePlaceholder is replaced by the page number in source URLs
	PagePlaceholder = "{page}"

	maxBodyBytes = 8 << 20
)

// PageFetcher loads one page of articles
type PageFetcher interface {
	Fetch(ctx context.Context, page int) ([]domain.Article, error)
}

// Func adapts a plain function to PageFetcher
type Func func(ctx context.Context, page int) ([]domain.Article, error)

// Fetch calls fn
func (fn Func) Fetch(ctx context.Context, page int) ([]domain.Article, error) {
	return fn(ctx, page)
}

// StatusError reports a non-2xx response
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// RateLimited waits on limiter before every call to f. A cancelled context
// ends the wait with ctx's error.
func RateLimited(f PageFetcher, limiter *rate.Limiter) PageFetcher {
	if limiter == nil {
		return f
	}
	return Func(func(ctx context.Context, page int) ([]domain.Article, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		return f.Fetch(ctx, page)
	})
}

// PageURL substitutes page into template
func PageURL(template string, page int) string {
	return strings.ReplaceAll(template, PagePlaceholder, strconv.Itoa(page))
}

func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// get performs a GET and returns the body of a 2xx response. The caller
// closes the body.
func get(ctx context.Context, client *http.Client, url, accept string) (io.ReadCloser, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxBodyBytes), resp.Body}, nil
}
