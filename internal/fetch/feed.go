package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"articlegrip/internal/domain"
)

const summaryLength = 280

// FeedSource reads RSS or Atom feeds. When the URL contains {page} the
// server does the paging; otherwise the whole feed is fetched and page n is
// the n-th slice of pageSize items.
type FeedSource struct {
	urlTemplate string
	pageSize    int
	client      *http.Client
}

// NewFeedSource creates a feed source
func NewFeedSource(urlTemplate string, pageSize int, timeout time.Duration) *FeedSource {
	if pageSize < 1 {
		pageSize = 10
	}
	return &FeedSource{urlTemplate: urlTemplate, pageSize: pageSize, client: newClient(timeout)}
}

// Fetch implements PageFetcher
func (s *FeedSource) Fetch(ctx context.Context, page int) ([]domain.Article, error) {
	serverPaged := strings.Contains(s.urlTemplate, PagePlaceholder)

	body, err := get(ctx, s.client, PageURL(s.urlTemplate, page), "application/rss+xml, application/atom+xml, application/xml")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := feed.Items
	if !serverPaged {
		items = slicePage(items, page, s.pageSize)
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		if a, ok := convertFeedItem(item, feed.Title); ok {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

func convertFeedItem(item *gofeed.Item, feedTitle string) (domain.Article, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return domain.Article{}, false
	}

	link := item.Link
	if link == "" {
		link = item.GUID
	}

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	id := item.GUID
	if id == "" {
		id = stableID(link, title)
	}

	source := feedTitle
	if item.Author != nil && item.Author.Name != "" {
		source = item.Author.Name
	}

	return domain.Article{
		ID:          id,
		Title:       title,
		URL:         link,
		Source:      source,
		Summary:     truncate(stripTags(summary), summaryLength),
		PublishedAt: published,
	}, true
}

func slicePage[T any](items []T, page, size int) []T {
	// checked before multiplying so huge pages cannot overflow
	if size < 1 || page < 1 || page-1 > len(items)/size {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// truncate shortens s to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
