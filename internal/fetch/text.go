package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// stableID derives a deterministic id from the article link, or from the
// title when there is no link, so re-fetching a page yields the same ids
func stableID(link, title string) string {
	key := link
	if key == "" {
		key = "title:" + title
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// stripTags returns the text content of an HTML fragment with whitespace
// collapsed
func stripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
