//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// articleServer serves fixed pages of articles as JSON and can be told
// to fail a page a number of times before answering it.
type articleServer struct {
	*httptest.Server

	mu       sync.Mutex
	pages    map[int][]string
	failures map[int]int
}

func newArticleServer(t *testing.T, pages map[int][]string) *articleServer {
	t.Helper()
	s := &articleServer{pages: pages, failures: map[int]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// FailPage makes the next n requests for page answer with a 500
func (s *articleServer) FailPage(page, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[page] = n
}

func (s *articleServer) serve(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		http.Error(w, "bad page", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.failures[page] > 0 {
		s.failures[page]--
		s.mu.Unlock()
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	titles := s.pages[page]
	s.mu.Unlock()

	type item struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	items := make([]item, 0, len(titles))
	for i, title := range titles {
		items = append(items, item{
			ID:    fmt.Sprintf("%d-%d", page, i),
			Title: title,
			URL:   fmt.Sprintf("https://example.com/%d/%d", page, i),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

// defaultPages is the article set most tests browse
func defaultPages() map[int][]string {
	return map[int][]string{
		1: {"Go generics in practice", "Rust for Gophers", "Terminal UIs with Bubble Tea"},
		2: {"Profiling with pprof", "Context cancellation patterns"},
		3: {"Writing a pager"},
	}
}

// writeConfig writes a TOML config into the workspace pointing at srv
func writeConfig(t *testing.T, workspace string, srv *articleServer) string {
	t.Helper()
	path := filepath.Join(workspace, "config.toml")
	content := fmt.Sprintf(`version = 1

[source]
kind = "api"
url = "%s/articles?page={page}"
page_size = 10
timeout_seconds = 5
rate_per_second = 0
burst = 1

[ui]
show_source = true
show_age = true
alt_screen = false

[log]
level = "debug"
path = %q

[archive]
enabled = false
path = %q
`, srv.URL, filepath.Join(workspace, "articlegrip.log"), filepath.Join(workspace, "archive.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// startBrowsing spins up a server and the app, waiting until page one is shown
func startBrowsing(t *testing.T) (*session, *articleServer) {
	t.Helper()
	s := newSession(t)
	t.Cleanup(s.Close)

	srv := newArticleServer(t, defaultPages())
	cfg := writeConfig(t, s.home, srv)

	require.NoError(t, s.Start("-c", cfg))
	if !s.Ready() {
		s.Fail("app did not become ready")
	}
	if !s.See("Go generics in practice") {
		s.Fail("first page was not rendered")
	}
	return s, srv
}
