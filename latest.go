package tioanime

import (
	"github.com/PuerkitoBio/goquery"
)

// Category is one of the latest-content buckets on the home page.
type Category string

const (
	CategoryChapters Category = "chapters"
	CategoryAnimes   Category = "animes"
	CategoryMovies   Category = "movies"
	CategoryOVAs     Category = "ovas"
	CategorySpecials Category = "specials"
)

// AllCategories is the name that requests every category at once.
const AllCategories = "*"

// Categories lists every category in aggregate order.
func Categories() []Category {
	return []Category{
		CategoryChapters,
		CategoryAnimes,
		CategoryMovies,
		CategoryOVAs,
		CategorySpecials,
	}
}

// ParseCategory maps a name to its Category. Unknown names, including the
// wildcard, yield an InvalidParameter error.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", NewError(KindInvalidParameter).With("category", name)
}

// Latest holds the latest entries per category. Single-category requests
// fill only the requested field.
type Latest struct {
	Chapters []ArticleItem `json:"chapters"`
	Animes   []ArticleItem `json:"animes"`
	Movies   []SectionItem `json:"movies"`
	OVAs     []SectionItem `json:"ovas"`
	Specials []SectionItem `json:"specials"`
}

// Items returns the list held for c.
func (l *Latest) Items(c Category) any {
	switch c {
	case CategoryChapters:
		return l.Chapters
	case CategoryAnimes:
		return l.Animes
	case CategoryMovies:
		return l.Movies
	case CategoryOVAs:
		return l.OVAs
	case CategorySpecials:
		return l.Specials
	}
	return nil
}

// ExtractLatest extracts one category from the home page.
func (e Extractor) ExtractLatest(doc *goquery.Document, c Category) *Latest {
	latest := &Latest{}
	switch c {
	case CategoryChapters:
		latest.Chapters = e.ArticleItems(doc, ".episode")
	case CategoryAnimes:
		latest.Animes = e.ArticleItems(doc, ".anime")
	case CategoryMovies:
		latest.Movies = e.SectionItems(doc, "movies")
	case CategoryOVAs:
		latest.OVAs = e.SectionItems(doc, "ovas")
	case CategorySpecials:
		latest.Specials = e.SectionItems(doc, "onas")
	}
	return latest
}

// ExtractAllLatest extracts every category and merges them. Each list is
// exactly what ExtractLatest returns for that category.
func (e Extractor) ExtractAllLatest(doc *goquery.Document) *Latest {
	all := &Latest{}
	for _, c := range Categories() {
		one := e.ExtractLatest(doc, c)
		switch c {
		case CategoryChapters:
			all.Chapters = one.Chapters
		case CategoryAnimes:
			all.Animes = one.Animes
		case CategoryMovies:
			all.Movies = one.Movies
		case CategoryOVAs:
			all.OVAs = one.OVAs
		case CategorySpecials:
			all.Specials = one.Specials
		}
	}
	return all
}
