package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"articlegrip/internal/domain"
)

// HTMLSource scrapes a paginated listing page. Each element matching
// itemSelector is one article; titleSelector picks the title element inside
// it and linkAttr the attribute holding the article link.
type HTMLSource struct {
	urlTemplate   string
	itemSelector  string
	titleSelector string
	linkAttr      string
	client        *http.Client
}

// HTMLOptions configures an HTMLSource
type HTMLOptions struct {
	ItemSelector  string
	TitleSelector string
	LinkAttr      string
	Timeout       time.Duration
}

// NewHTMLSource creates a scraping source for urlTemplate
func NewHTMLSource(urlTemplate string, opts HTMLOptions) *HTMLSource {
	if opts.LinkAttr == "" {
		opts.LinkAttr = "href"
	}
	return &HTMLSource{
		urlTemplate:   urlTemplate,
		itemSelector:  opts.ItemSelector,
		titleSelector: opts.TitleSelector,
		linkAttr:      opts.LinkAttr,
		client:        newClient(opts.Timeout),
	}
}

// Fetch implements PageFetcher
func (s *HTMLSource) Fetch(ctx context.Context, page int) ([]domain.Article, error) {
	pageURL := PageURL(s.urlTemplate, page)

	body, err := get(ctx, s.client, pageURL, "text/html")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	base, _ := url.Parse(pageURL)
	host := ""
	if base != nil {
		host = base.Host
	}

	var articles []domain.Article
	doc.Find(s.itemSelector).Each(func(_ int, item *goquery.Selection) {
		titleSel := item
		if s.titleSelector != "" {
			titleSel = item.Find(s.titleSelector).First()
		}

		title := strings.Join(strings.Fields(titleSel.Text()), " ")
		if title == "" {
			return
		}

		href, ok := titleSel.Attr(s.linkAttr)
		if !ok {
			href, _ = item.Find("[" + s.linkAttr + "]").First().Attr(s.linkAttr)
		}
		link := resolveLink(base, href)

		articles = append(articles, domain.Article{
			ID:     stableID(link, title),
			Title:  title,
			URL:    link,
			Source: host,
		})
	})

	if articles == nil {
		articles = []domain.Article{}
	}
	return articles, nil
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
