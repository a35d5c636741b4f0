package tioanime

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/tioanime/scrape"
)

// TotalPages reads the pagination control of a listing. The last link is
// the "next" control, so the second-to-last holds the highest page number.
// With fewer than two links there is no pagination and the result is 0.
func TotalPages(doc *goquery.Document) int {
	links := doc.Find(".page-link")
	if links.Length() < 2 {
		return 0
	}

	total, err := strconv.Atoi(strings.TrimSpace(scrape.Text(links.Eq(links.Length() - 2))))
	if err != nil {
		return 0
	}
	return total
}

// CheckPage returns nil when page is within the listing's pages. Otherwise
// it returns fallback, or the default catalog error when fallback is nil.
func CheckPage(doc *goquery.Document, page int, fallback *Error) *Error {
	if page <= TotalPages(doc) {
		return nil
	}
	if fallback == nil {
		return NewError(KindDefault)
	}
	return fallback
}
