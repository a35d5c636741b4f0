// Package tioanime extracts catalog records from tioanime.com: title
// details, episode links, searches, the latest releases and the weekly
// broadcast schedule.
package tioanime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pevans/tioanime/filters"
	"github.com/pevans/tioanime/scrape"
)

// DefaultBaseURL is the origin every route is addressed against.
const DefaultBaseURL = "https://tioanime.com"

const (
	routeSearch      = "/directorio?q="
	routeDirectory   = "/directorio?"
	routeAnime       = "/anime/"
	routeWatch       = "/ver/"
	routeProgramming = "/programacion"
)

// Client runs the public catalog operations. Each call fetches exactly one
// document and returns a fully built result or an *Error.
type Client struct {
	baseURL string
	fetcher scrape.Fetcher
	logger  *zap.Logger
	extract Extractor
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another origin, such as a mirror or a
// test server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f scrape.Fetcher) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// WithTimeout sets the timeout of the default HTTP fetcher.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.fetcher = scrape.NewHTTPFetcher(timeout)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for DefaultBaseURL unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		fetcher: scrape.NewHTTPFetcher(scrape.DefaultTimeout),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.extract = Extractor{Origin: c.baseURL}
	return c
}

// BaseURL returns the origin the client addresses.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// document fetches u. A 404 answer becomes NotFound; every other failure
// becomes InternalException with the cause attached.
func (c *Client) document(ctx context.Context, u string) (*goquery.Document, error) {
	c.logger.Debug("fetching document", zap.String("url", u))

	doc, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		var statusErr *scrape.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, NewError(KindNotFound).Wrap(err)
		}
		c.logger.Warn("fetch failed", zap.String("url", u), zap.Error(err))
		return nil, NewError(KindInternal).Wrap(err)
	}

	return doc, nil
}

// page fetches a detail page, which the site answers with a 200 and a
// marker title when the slug does not exist.
func (c *Client) page(ctx context.Context, u string) (*goquery.Document, error) {
	doc, err := c.document(ctx, u)
	if err != nil {
		return nil, err
	}
	if IsNotFound(doc) {
		return nil, NewError(KindNotFound)
	}
	return doc, nil
}

func (c *Client) internal(u string, err error) error {
	c.logger.Warn("extraction failed", zap.String("url", u), zap.Error(err))
	return NewError(KindInternal).Wrap(err)
}

// Info returns the detail record of the title with the given slug.
func (c *Client) Info(ctx context.Context, id string) (*AnimeInfo, error) {
	u := c.baseURL + routeAnime + url.PathEscape(id)

	doc, err := c.page(ctx, u)
	if err != nil {
		return nil, err
	}

	info, err := c.extract.Info(doc, id)
	if err != nil {
		return nil, c.internal(u, err)
	}
	return info, nil
}

// ChapterLinks returns the watch and download links of one episode.
func (c *Client) ChapterLinks(ctx context.Context, id string, chapter int) (*AnimeLinks, error) {
	u := c.baseURL + routeWatch + url.PathEscape(id) + "-" + strconv.Itoa(chapter)

	doc, err := c.page(ctx, u)
	if err != nil {
		return nil, err
	}

	links, err := c.extract.Links(doc, id, chapter)
	if err != nil {
		return nil, c.internal(u, err)
	}
	return links, nil
}

// Search runs a text search. Pages below 1 are treated as 1. An empty
// result is NoItemsFound and a page past the last one is PageExceeded.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	u := fmt.Sprintf("%s%s%s&p=%d", c.baseURL, routeSearch, url.QueryEscape(query), page)

	doc, err := c.document(ctx, u)
	if err != nil {
		return nil, err
	}

	items := c.extract.ArticleItems(doc, ".anime")
	if len(items) == 0 {
		return nil, NewError(KindNoItems)
	}

	// A single page of results has no pagination control, so total is 0
	// and the guard fails: those results are dropped on purpose and the
	// caller gets PageExceeded.
	total := TotalPages(doc)
	if perr := CheckPage(doc, page, NewError(KindPageExceeded)); perr != nil {
		return nil, perr.
			With("info", fmt.Sprintf("total pages: %d", total)).
			With("query", "query: "+query)
	}

	return &SearchResult{
		Query:      query,
		Page:       page,
		TotalPages: total,
		Results:    items,
	}, nil
}

// Latest returns the latest entries of a single category.
func (c *Client) Latest(ctx context.Context, category Category) (*Latest, error) {
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}

	doc, err := c.document(ctx, c.baseURL+"/")
	if err != nil {
		return nil, err
	}
	return c.extract.ExtractLatest(doc, category), nil
}

// LatestAll returns the latest entries of every category from one fetch of
// the home page.
func (c *Client) LatestAll(ctx context.Context) (*Latest, error) {
	doc, err := c.document(ctx, c.baseURL+"/")
	if err != nil {
		return nil, err
	}
	return c.extract.ExtractAllLatest(doc), nil
}

// LatestByName resolves name to a category, with AllCategories selecting
// the aggregate.
func (c *Client) LatestByName(ctx context.Context, name string) (*Latest, error) {
	if name == AllCategories {
		return c.LatestAll(ctx)
	}

	category, err := ParseCategory(name)
	if err != nil {
		return nil, err
	}
	return c.Latest(ctx, category)
}

// FilterURL returns the directory URL a filter search fetches.
func (c *Client) FilterURL(f filters.Filters) string {
	return c.baseURL + routeDirectory + f.Query()
}

// SearchByFilters runs a directory search. An empty page is not an error.
func (c *Client) SearchByFilters(ctx context.Context, f filters.Filters) (*FiltersResult, error) {
	u := c.FilterURL(f)

	doc, err := c.document(ctx, u)
	if err != nil {
		return nil, err
	}

	page := f.EffectivePage()
	total := TotalPages(doc)
	exceeded := Errorf(KindPageExceeded, `[ERROR] "page" is greater than total pages: %d`, total)
	if perr := CheckPage(doc, page, exceeded); perr != nil {
		return nil, perr
	}

	return &FiltersResult{
		URL:        u,
		Page:       page,
		TotalPages: total,
		Results:    c.extract.ArticleItems(doc, ".anime"),
	}, nil
}

// SearchByRawFilters validates a loosely-typed filter record before running
// the search. Schema violations are ValidationError and nothing is fetched.
func (c *Client) SearchByRawFilters(ctx context.Context, raw map[string]any) (*FiltersResult, error) {
	f, err := filters.Decode(raw)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}
	return c.SearchByFilters(ctx, f)
}

// WeeklyProgramming returns the broadcast schedule for the week.
func (c *Client) WeeklyProgramming(ctx context.Context) (*AnimeProgramming, error) {
	doc, err := c.document(ctx, c.baseURL+routeProgramming)
	if err != nil {
		return nil, err
	}
	return c.extract.Programming(doc), nil
}
