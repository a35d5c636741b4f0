// Package filters encodes directory filter requests into the site's
// canonical query string and validates loosely-typed filter records.
package filters

import (
	"fmt"
	"slices"
	"strings"
)

// Default year bounds used when no usable range is supplied.
const (
	DefaultYearFrom = "1950"
	DefaultYearTo   = "2022"
)

// Filters describes a directory query. Every field is optional.
type Filters struct {
	Types  []string `json:"types,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Years  []string `json:"years,omitempty"`
	Status string   `json:"status,omitempty"`
	Sort   string   `json:"sort,omitempty"`
	Page   *int     `json:"page,omitempty"`
}

var typeCodes = map[string]int{
	"tv":      0,
	"movie":   1,
	"ova":     2,
	"special": 3,
}

var statusCodes = map[string]int{
	"finished":    2,
	"broadcast":   1,
	"coming-soon": 3,
}

var genres = []string{
	"accion", "artes-marciales", "aventuras", "carreras",
	"ciencia-ficcion", "comedia", "demencia", "demonios",
	"deportes", "drama", "ecchi", "escolares", "espacial",
	"fantasia", "harem", "historico", "infantil", "josei",
	"juegos", "magia", "mecha", "militar", "misterio", "musica",
	"parodia", "policia", "psicologico", "recuentos-de-la-vida",
	"romance", "samurai", "seinen", "shoujo", "shounen", "sobrenatural",
	"superpoderes", "suspenso", "terror", "vampiros", "yaoi", "yuri",
}

// TypeCode returns the directory code for a content type.
func TypeCode(name string) (int, bool) {
	code, ok := typeCodes[name]
	return code, ok
}

// StatusCode returns the directory code for a broadcast status.
func StatusCode(name string) (int, bool) {
	code, ok := statusCodes[name]
	return code, ok
}

// IsGenre reports whether name is part of the genre vocabulary.
func IsGenre(name string) bool {
	return slices.Contains(genres, name)
}

// Genres returns a copy of the genre vocabulary.
func Genres() []string {
	return slices.Clone(genres)
}

// EffectivePage returns the page a query will land on: 1 when unset,
// otherwise the requested page clamped to at least 1.
func (f Filters) EffectivePage() int {
	if f.Page == nil || *f.Page < 1 {
		return 1
	}
	return *f.Page
}

// Query is shorthand for Encode(f).
func (f Filters) Query() string {
	return Encode(f)
}

// Encode builds the canonical query string for f. Parameters always come in
// the order type[], genero[], year, status, sort, p. Unknown types, genres
// and statuses are dropped rather than reported.
func Encode(f Filters) string {
	params := make([]string, 0, len(f.Types)+len(f.Genres)+4)

	for _, t := range f.Types {
		if code, ok := TypeCode(t); ok {
			params = append(params, fmt.Sprintf("type%%5B%%5D=%d", code))
		}
	}

	for _, g := range f.Genres {
		if IsGenre(g) {
			params = append(params, "genero%5B%5D="+g)
		}
	}

	from, to := DefaultYearFrom, DefaultYearTo
	if len(f.Years) >= 2 {
		from, to = f.Years[0], f.Years[1]
	}
	params = append(params, "year="+from+"%2C"+to)

	if code, ok := StatusCode(f.Status); ok {
		params = append(params, fmt.Sprintf("status=%d", code))
	}

	if f.Sort != "" {
		params = append(params, "sort="+f.Sort)
	}

	if f.Page != nil {
		params = append(params, fmt.Sprintf("p=%d", f.EffectivePage()))
	}

	return strings.Join(params, "&")
}
