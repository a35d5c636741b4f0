package tioanime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/tioanime/scrape"
)

// notFoundTitle is what the site renders in .title instead of a 404.
const notFoundTitle = "Ups... Prueba de nuevo"

// Extractor turns fetched documents into entities. Origin is prefixed to
// the site-relative image paths found in the markup.
type Extractor struct {
	Origin string
}

// absolute resolves a site-relative path against the origin. Empty paths
// stay empty and absolute URLs pass through.
func (e Extractor) absolute(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return e.Origin + path
}

// slugFromHref returns the third /-segment of a relative link, so
// "/anime/naruto" yields "naruto".
func slugFromHref(href string) string {
	parts := strings.Split(href, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// IsNotFound reports whether doc is the site's "not found" page.
func IsNotFound(doc *goquery.Document) bool {
	title := doc.Find(".title")
	return title.Length() == 0 || scrape.InnerHTML(title) == notFoundTitle
}

// ArticleItems extracts the listing entries matched by selector. Only nodes
// carrying exactly one class are kept; featured variants rendered with
// extra classes are skipped.
func (e Extractor) ArticleItems(doc *goquery.Document, selector string) []ArticleItem {
	items := []ArticleItem{}

	doc.Find(selector).Each(func(_ int, article *goquery.Selection) {
		if scrape.ClassCount(article) != 1 {
			return
		}

		href := scrape.Attr(article.Find("a"), "href")
		items = append(items, ArticleItem{
			Name:      scrape.InnerHTML(article.Find("a h3")),
			ID:        slugFromHref(href),
			PosterURL: e.absolute(scrape.Attr(article.Find(".thumb figure img"), "src")),
		})
	})

	return items
}

// SectionItems extracts the entries of a home page section such as
// "movies", "ovas" or "onas".
func (e Extractor) SectionItems(doc *goquery.Document, section string) []SectionItem {
	items := []SectionItem{}

	doc.Find("." + section + " ul .anime").Each(func(_ int, article *goquery.Selection) {
		genres := []string{}
		article.Find(".media-body .genres span a").Each(func(_ int, genre *goquery.Selection) {
			genres = append(genres, scrape.InnerHTML(genre))
		})

		href := scrape.Attr(article.Find(".media-body a"), "href")
		items = append(items, SectionItem{
			Name:        scrape.InnerHTML(article.Find(".media-body a h3")),
			ID:          slugFromHref(href),
			PosterURL:   e.absolute(scrape.Attr(article.Find(".thumb a figure img"), "src")),
			Type:        scrape.InnerHTML(article.Find(".thumb span")),
			Description: scrape.NormalizeSpace(scrape.InnerHTML(article.Find(".media-body .description"))),
			Genres:      genres,
		})
	})

	return items
}

// Info extracts a title's detail page. id is echoed back as AnimeID.
func (e Extractor) Info(doc *goquery.Document, id string) (*AnimeInfo, error) {
	// Script bodies are read as text. Rendering them as markup would escape
	// the quotes the embedded arrays rely on.
	scripts := doc.Find("script")

	chapters, err := parseChapterCount(scrape.Text(scripts.Last()))
	if err != nil {
		return nil, err
	}

	genres := []string{}
	doc.Find(".genres span a").Each(func(_ int, genre *goquery.Selection) {
		genres = append(genres, scrape.InnerHTML(genre))
	})

	related := []AnimeRelated{}
	doc.Find(".sm").Each(func(_ int, article *goquery.Selection) {
		href := scrape.Attr(article.Find(".thumb a"), "href")
		related = append(related, AnimeRelated{
			Name:  scrape.InnerHTML(article.Find(".media-body h3")),
			ID:    strings.TrimPrefix(href, "/anime/"),
			Image: e.absolute(scrape.Attr(article.Find("img"), "src")),
			Type:  scrape.InnerHTML(article.Find(".anime-type-peli")),
			Year:  scrape.InnerHTML(article.Find(".year")),
		})
	})

	poster := e.absolute(scrape.Attr(doc.Find(".thumb figure img"), "src"))
	season := scrape.NormalizeSpace(scrape.InnerHTML(doc.Find(".season .season span")))

	return &AnimeInfo{
		Name:          scrape.Text(doc.Find(".title")),
		AnimeID:       id,
		MalID:         parseMalID(scrape.Text(scripts.Eq(-2))),
		Poster:        poster,
		Banner:        strings.Replace(poster, "portadas", "fondos", 1),
		EpisodePoster: strings.Replace(poster, "portadas", "thumbs", 1),
		Genres:        genres,
		Synopsis:      scrape.NormalizeSpace(scrape.Text(doc.Find(".sinopsis"))),
		ChapterCount:  chapters,
		Type:          scrape.InnerHTML(doc.Find(".anime-type-peli")),
		Year:          scrape.InnerHTML(doc.Find(".year")),
		Status:        scrape.Text(doc.Find(".status")),
		Season:        strings.SplitN(season, "  ", 2)[0],
		Related:       related,
	}, nil
}

// parseChapterCount reads the first element of the `episodes = [...]`
// array embedded in script. A missing array means 0 chapters.
func parseChapterCount(script string) (int, error) {
	const marker = "episodes ="

	start := strings.Index(script, marker)
	if start < 0 {
		return 0, nil
	}

	list := script[start+len(marker):]
	if end := strings.Index(list, ";"); end >= 0 {
		list = list[:end]
	}

	var episodes []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(list)), &episodes); err != nil {
		return 0, fmt.Errorf("failed to parse episode list: %w", err)
	}
	if len(episodes) == 0 {
		return 0, nil
	}

	return leadingInt(strings.Trim(string(episodes[0]), `"`)), nil
}

// leadingInt parses the leading decimal digits of s, ignoring anything
// after them. It returns 0 when s does not start with a digit.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// parseMalID pulls the MyAnimeList id out of the quoted API link inside
// script, e.g. "$.get('https://api.jikan.moe/v3/anime/20')" yields "20".
func parseMalID(script string) string {
	const marker = "anime/"

	start := strings.Index(script, "'")
	if start < 0 {
		return ""
	}

	link := script[start+1:]
	if end := strings.Index(link, ")"); end >= 0 {
		link = link[:end]
	}

	at := strings.Index(link, marker)
	if at < 0 {
		return ""
	}

	digits := link[at+len(marker):]
	n := 0
	for n < len(digits) && digits[n] >= '0' && digits[n] <= '9' {
		n++
	}
	return digits[:n]
}

// Links extracts the watch and download links of an episode page.
func (e Extractor) Links(doc *goquery.Document, id string, chapter int) (*AnimeLinks, error) {
	watch, err := parseWatchLinks(scrape.Text(doc.Find("script").Last()))
	if err != nil {
		return nil, err
	}

	download := ServerLinks{}
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		server := scrape.InnerHTML(row.Find("td").First())
		href := scrape.Attr(row.Find("td a"), "href")
		download[server] = append(download[server], href)
	})

	return &AnimeLinks{
		ID:      id,
		Chapter: chapter,
		Links: Links{
			WatchLinks:    watch,
			DownloadLinks: download,
		},
	}, nil
}

// parseWatchLinks decodes the `[[server, url, ...], ...]` array embedded in
// script. Server names are lower-cased.
func parseWatchLinks(script string) (ServerLinks, error) {
	links := ServerLinks{}

	start := strings.Index(script, "[[")
	end := strings.Index(script, "]]")
	if start < 0 || end < start {
		return links, nil
	}

	var videos [][]any
	if err := json.Unmarshal([]byte(script[start:end+2]), &videos); err != nil {
		return nil, fmt.Errorf("failed to parse video list: %w", err)
	}

	for _, video := range videos {
		if len(video) < 2 {
			continue
		}
		server, _ := video[0].(string)
		link, _ := video[1].(string)
		server = strings.ToLower(server)
		links[server] = append(links[server], link)
	}

	return links, nil
}

// Programming extracts the weekly schedule. Each day is rendered in a
// container whose id is the capitalized English day name.
func (e Extractor) Programming(doc *goquery.Document) *AnimeProgramming {
	days := &AnimeProgramming{}

	for _, weekday := range Weekdays {
		items := days.day(weekday)
		*items = []ProgrammingItem{}

		doc.Find("#" + weekday.String() + " a").Each(func(_ int, tag *goquery.Selection) {
			spans := tag.Find("span")
			*items = append(*items, ProgrammingItem{
				Name:    scrape.InnerHTML(tag.Find("h3")),
				ID:      PlaceholderID,
				Image:   e.absolute(scrape.Attr(tag.Find("img"), "src")),
				Chapter: scrape.NormalizeSpace(scrape.InnerHTML(spans.Eq(1))),
				Status:  scrape.InnerHTML(spans.Eq(0)),
			})
		})
	}

	return days
}
