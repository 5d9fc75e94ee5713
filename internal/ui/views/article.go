package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"articlegrip/internal/domain"
)

// ArticleRenderer handles rendering of article rows
type ArticleRenderer struct {
	styles     *Styles
	showSource bool
	showAge    bool
}

// NewArticleRenderer creates a new article renderer
func NewArticleRenderer(styles *Styles, showSource, showAge bool) *ArticleRenderer {
	return &ArticleRenderer{
		styles:     styles,
		showSource: showSource,
		showAge:    showAge,
	}
}

// RenderArticle renders one row of the list. Matches of filter inside the
// title are highlighted.
func (r *ArticleRenderer) RenderArticle(a domain.Article, isSelected bool, filter string, now time.Time) string {
	bg := lipgloss.NewStyle()
	if isSelected {
		bg = r.styles.SelectionBg
	}

	var parts []string
	if isSelected {
		parts = append(parts, bg.Render("▸ "))
	} else {
		parts = append(parts, "  ")
	}

	title := a.Title
	if title == "" {
		title = "(untitled)"
	}
	if filter != "" {
		parts = append(parts, highlightMatch(title, filter, bg.Inherit(r.styles.Highlight), bg))
	} else {
		parts = append(parts, bg.Render(title))
	}

	var meta []string
	if r.showSource && a.Source != "" {
		meta = append(meta, r.styles.Source.Render(a.Source))
	}
	if r.showAge && !a.PublishedAt.IsZero() {
		meta = append(meta, r.styles.Dim.Render(formatAge(a.PublishedAt, now)))
	}
	if len(meta) > 0 {
		parts = append(parts, r.styles.Dim.Render("  · "), strings.Join(meta, r.styles.Dim.Render(" · ")))
	}

	return strings.Join(parts, "")
}

func formatAge(published, now time.Time) string {
	if published.After(now) {
		return "just now"
	}
	return humanize.RelTime(published, now, "ago", "from now")
}

// highlightMatch highlights the first case-insensitive match of query
func highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	// lowering can change byte lengths outside ASCII
	if index == -1 || len(lowerText) != len(text) {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(lowerQuery)]
	after := text[index+len(lowerQuery):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}
