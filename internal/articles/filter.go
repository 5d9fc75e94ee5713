package articles

import (
	"strings"

	"articlegrip/internal/domain"
)

// Project returns the articles whose title contains filter, ignoring case.
// An empty filter keeps every article. The result never aliases the input.
func Project(list []domain.Article, filter string) []domain.Article {
	out := make([]domain.Article, 0, len(list))
	if filter == "" {
		return append(out, list...)
	}

	query := strings.ToLower(filter)
	for _, a := range list {
		if strings.Contains(strings.ToLower(a.Title), query) {
			out = append(out, a)
		}
	}
	return out
}
