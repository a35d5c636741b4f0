package tioanime

import "time"

// ArticleItem is one entry of a listing: a title or an episode card.
type ArticleItem struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	PosterURL string `json:"posterUrl"`
}

// SectionItem is a listing entry from the movies, OVA or specials sections
// of the home page.
type SectionItem struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	PosterURL   string   `json:"posterUrl"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
}

// AnimeRelated is a lightweight reference to another title.
type AnimeRelated struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Image string `json:"image"`
	Type  string `json:"type"`
	Year  string `json:"year"`
}

// AnimeInfo is the detail page of a title.
type AnimeInfo struct {
	Name          string         `json:"name"`
	AnimeID       string         `json:"animeId"`
	MalID         string         `json:"malId"`
	Poster        string         `json:"poster"`
	Banner        string         `json:"banner"`
	EpisodePoster string         `json:"episodePoster"`
	Genres        []string       `json:"genres"`
	Synopsis      string         `json:"synopsis"`
	ChapterCount  int            `json:"chapterCount"`
	Type          string         `json:"type"`
	Year          string         `json:"year"`
	Status        string         `json:"status"`
	Season        string         `json:"season"`
	Related       []AnimeRelated `json:"related"`
}

// ServerLinks maps a server name to its links in arrival order.
type ServerLinks map[string][]string

// Links groups the watch and download links of an episode.
type Links struct {
	WatchLinks    ServerLinks `json:"watchLinks"`
	DownloadLinks ServerLinks `json:"downloadLinks"`
}

// AnimeLinks holds every link published for one episode.
type AnimeLinks struct {
	ID      string `json:"id"`
	Chapter int    `json:"chapter"`
	Links   Links  `json:"links"`
}

// SearchResult is one page of a text search.
type SearchResult struct {
	Query      string        `json:"query"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Results    []ArticleItem `json:"results"`
}

// FiltersResult is one page of a directory filter search.
type FiltersResult struct {
	URL        string        `json:"url"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Results    []ArticleItem `json:"results"`
}

// PlaceholderID stands in for the slug of schedule items. The schedule page
// does not expose one.
const PlaceholderID = "..."

// ProgrammingItem is one title airing on a given weekday.
type ProgrammingItem struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Image   string `json:"image"`
	Chapter string `json:"chapter"`
	Status  string `json:"status"`
}

// AnimeProgramming is the weekly broadcast schedule.
type AnimeProgramming struct {
	Monday    []ProgrammingItem `json:"monday"`
	Tuesday   []ProgrammingItem `json:"tuesday"`
	Wednesday []ProgrammingItem `json:"wednesday"`
	Thursday  []ProgrammingItem `json:"thursday"`
	Friday    []ProgrammingItem `json:"friday"`
	Saturday  []ProgrammingItem `json:"saturday"`
	Sunday    []ProgrammingItem `json:"sunday"`
}

// Weekdays lists the schedule days in the order the site renders them.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Day returns the items airing on d.
func (p *AnimeProgramming) Day(d time.Weekday) []ProgrammingItem {
	return *p.day(d)
}

func (p *AnimeProgramming) day(d time.Weekday) *[]ProgrammingItem {
	switch d {
	case time.Monday:
		return &p.Monday
	case time.Tuesday:
		return &p.Tuesday
	case time.Wednesday:
		return &p.Wednesday
	case time.Thursday:
		return &p.Thursday
	case time.Friday:
		return &p.Friday
	case time.Saturday:
		return &p.Saturday
	default:
		return &p.Sunday
	}
}
