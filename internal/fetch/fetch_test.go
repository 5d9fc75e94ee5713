package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"articlegrip/internal/config"
	"articlegrip/internal/domain"
)

func serve(t *testing.T, contentType string, bodies map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Query().Get("page")]
		if !ok {
			body, ok = bodies[""]
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestJSONSourceFetch(t *testing.T) {
	server := serve(t, "application/json", map[string]string{
		"1": `[
			{"id": 101, "title": "Angular Basics", "url": "https://dev.to/a", "description": " intro ", "published_at": "2024-05-01T10:00:00Z", "user": {"name": "Ada"}},
			{"id": "b-2", "title": "Go Concurrency", "url": "https://dev.to/b", "published_at": "not a date"},
			{"id": 103, "title": "   "}
		]`,
		"2": `[]`,
	})

	src := NewJSONSource(server.URL+"/articles?page={page}", time.Second)

	got, err := src.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.Article{
		ID:          "101",
		Title:       "Angular Basics",
		URL:         "https://dev.to/a",
		Source:      "Ada",
		Summary:     "intro",
		PublishedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}, got[0])
	assert.Equal(t, "b-2", got[1].ID)
	assert.Equal(t, "api", got[1].Source)
	assert.True(t, got[1].PublishedAt.IsZero())

	empty, err := src.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestJSONSourceIsRepeatable(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"title": "No id", "url": "https://example.com/x"}]`))
	}))
	defer server.Close()

	src := NewJSONSource(server.URL+"?page={page}", time.Second)
	first, err := src.Fetch(context.Background(), 1)
	require.NoError(t, err)
	second, err := src.Fetch(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first[0].ID)
	assert.Equal(t, int32(2), hits.Load())
}

func TestJSONSourceHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewJSONSource(server.URL+"?page={page}", time.Second).Fetch(context.Background(), 1)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, "HTTP 503", err.Error())
}

func TestJSONSourceMalformedBody(t *testing.T) {
	server := serve(t, "application/json", map[string]string{"": `{"not": "an array"}`})

	_, err := NewJSONSource(server.URL+"?page={page}", time.Second).Fetch(context.Background(), 1)
	assert.ErrorContains(t, err, "decode page 1")
}

func TestJSONSourceHonoursCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := NewJSONSource(server.URL+"?page={page}", 10*time.Second).Fetch(ctx, 1)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch ignored cancellation")
	}
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://x/api?page=3&per_page=10", PageURL("https://x/api?page={page}&per_page=10", 3))
	assert.Equal(t, "https://x/feed", PageURL("https://x/feed", 3))
}

func TestRateLimited(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(ctx context.Context, page int) ([]domain.Article, error) {
		calls.Add(1)
		return nil, nil
	})

	t.Run("passes through when allowed", func(t *testing.T) {
		f := RateLimited(inner, rate.NewLimiter(rate.Inf, 1))
		_, err := f.Fetch(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("cancelled wait skips the fetch", func(t *testing.T) {
		calls.Store(0)
		limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
		require.True(t, limiter.Allow())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := RateLimited(inner, limiter).Fetch(ctx, 1)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls.Load())
	})

	t.Run("nil limiter", func(t *testing.T) {
		assert.NotNil(t, RateLimited(inner, nil))
	})
}

type fakeArchive struct {
	page, size int
	articles   []domain.Article
	err        error
}

func (f *fakeArchive) Page(ctx context.Context, page, size int) ([]domain.Article, error) {
	f.page, f.size = page, size
	return f.articles, f.err
}

func TestArchiveSource(t *testing.T) {
	archive := &fakeArchive{articles: []domain.Article{{ID: "1", Title: "Saved"}}}
	src := NewArchiveSource(archive, 5)

	got, err := src.Fetch(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Saved", got[0].Title)
	assert.Equal(t, 3, archive.page)
	assert.Equal(t, 5, archive.size)

	archive.err = errors.New("disk full")
	_, err = src.Fetch(context.Background(), 1)
	assert.EqualError(t, err, "disk full")

	_, err = NewArchiveSource(nil, 5).Fetch(context.Background(), 1)
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	base := config.DefaultConfig().Source

	tests := []struct {
		name    string
		mutate  func(*config.SourceConfig)
		archive PageReader
		check   func(*testing.T, PageFetcher)
		wantErr string
	}{
		{
			name:   "api without limiter",
			mutate: func(c *config.SourceConfig) { c.RatePerSecond = 0 },
			check: func(t *testing.T, f PageFetcher) {
				assert.IsType(t, &JSONSource{}, f)
			},
		},
		{
			name: "api with limiter",
			check: func(t *testing.T, f PageFetcher) {
				assert.IsType(t, Func(nil), f)
			},
		},
		{
			name:   "feed",
			mutate: func(c *config.SourceConfig) { c.Kind = config.SourceFeed; c.RatePerSecond = 0 },
			check: func(t *testing.T, f PageFetcher) {
				assert.IsType(t, &FeedSource{}, f)
			},
		},
		{
			name: "html",
			mutate: func(c *config.SourceConfig) {
				c.Kind = config.SourceHTML
				c.ItemSelector = "li"
				c.RatePerSecond = 0
			},
			check: func(t *testing.T, f PageFetcher) {
				assert.IsType(t, &HTMLSource{}, f)
			},
		},
		{
			name:    "archive",
			mutate:  func(c *config.SourceConfig) { c.Kind = config.SourceArchive },
			archive: &fakeArchive{},
			check: func(t *testing.T, f PageFetcher) {
				assert.IsType(t, &ArchiveSource{}, f)
			},
		},
		{
			name:    "archive without store",
			mutate:  func(c *config.SourceConfig) { c.Kind = config.SourceArchive },
			wantErr: "needs an open archive",
		},
		{
			name:    "unknown kind",
			mutate:  func(c *config.SourceConfig) { c.Kind = "gopher" },
			wantErr: "unknown source kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			f, err := NewFromConfig(cfg, tt.archive)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, f)
		})
	}
}
