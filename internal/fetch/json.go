package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"articlegrip/internal/domain"
)

// JSONSource reads pages from a JSON API returning an array of articles,
// in the shape of the dev.to articles endpoint
type JSONSource struct {
	urlTemplate string
	client      *http.Client
}

// NewJSONSource creates a source for urlTemplate, which must contain {page}
func NewJSONSource(urlTemplate string, timeout time.Duration) *JSONSource {
	return &JSONSource{urlTemplate: urlTemplate, client: newClient(timeout)}
}

// jsonArticle mirrors the fields we read from the API
type jsonArticle struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Description string          `json:"description"`
	PublishedAt string          `json:"published_at"`
	User        *struct {
		Name string `json:"name"`
	} `json:"user"`
}

// Fetch implements PageFetcher
func (s *JSONSource) Fetch(ctx context.Context, page int) ([]domain.Article, error) {
	body, err := get(ctx, s.client, PageURL(s.urlTemplate, page), "application/json")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var raw []jsonArticle
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}

	articles := make([]domain.Article, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}

		a := domain.Article{
			ID:      rawID(r.ID),
			Title:   title,
			URL:     r.URL,
			Summary: strings.TrimSpace(r.Description),
			Source:  "api",
		}
		if r.User != nil && r.User.Name != "" {
			a.Source = r.User.Name
		}
		if a.ID == "" {
			a.ID = stableID(a.URL, title)
		}
		if t, err := time.Parse(time.RFC3339, r.PublishedAt); err == nil {
			a.PublishedAt = t
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// rawID accepts numeric and string ids
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}
