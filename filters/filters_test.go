package filters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

// TestEncode_CanonicalOrder verifies type[] precedes genero[] precedes year
func TestEncode_CanonicalOrder(t *testing.T) {
	q := Encode(Filters{
		Types:  []string{"tv"},
		Genres: []string{"shounen", "seinen"},
		Page:   intPtr(2),
	})

	assert.Equal(t,
		"type%5B%5D=0&genero%5B%5D=shounen&genero%5B%5D=seinen&year=1950%2C2022&p=2",
		q)

	typeAt := strings.Index(q, "type%5B%5D=")
	genreAt := strings.Index(q, "genero%5B%5D=")
	yearAt := strings.Index(q, "year=")
	assert.Less(t, typeAt, genreAt)
	assert.Less(t, genreAt, yearAt)
}

// TestEncode_Empty verifies an empty request still carries the default year range
func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "year=1950%2C2022", Encode(Filters{}))
}

// TestEncode_AllFields verifies every parameter is emitted in order
func TestEncode_AllFields(t *testing.T) {
	q := Filters{
		Types:  []string{"movie", "special"},
		Genres: []string{"drama"},
		Years:  []string{"2000", "2010"},
		Status: "coming-soon",
		Sort:   "-recent",
		Page:   intPtr(4),
	}.Query()

	assert.Equal(t,
		"type%5B%5D=1&type%5B%5D=3&genero%5B%5D=drama&year=2000%2C2010&status=3&sort=-recent&p=4",
		q)
}

// TestEncode_DropsUnknownValues verifies lenient handling of unsupported values
func TestEncode_DropsUnknownValues(t *testing.T) {
	q := Encode(Filters{
		Types:  []string{"cartoon", "ova"},
		Genres: []string{"cooking", "magia"},
		Status: "paused",
	})

	assert.Equal(t, "type%5B%5D=2&genero%5B%5D=magia&year=1950%2C2022", q)
	assert.NotContains(t, q, "cartoon")
	assert.NotContains(t, q, "cooking")
	assert.NotContains(t, q, "status=")
}

// TestEncode_OnlyUnknownValues verifies a parameter disappears entirely
func TestEncode_OnlyUnknownValues(t *testing.T) {
	q := Encode(Filters{
		Types:  []string{"cartoon"},
		Genres: []string{"cooking"},
	})

	assert.NotContains(t, q, "type%5B%5D")
	assert.NotContains(t, q, "genero%5B%5D")
	assert.Equal(t, "year=1950%2C2022", q)
}

// TestEncode_Years verifies year defaults and verbatim bounds
func TestEncode_Years(t *testing.T) {
	tests := []struct {
		name  string
		years []string
		want  string
	}{
		{name: "absent", years: nil, want: "year=1950%2C2022"},
		{name: "single value", years: []string{"2001"}, want: "year=1950%2C2022"},
		{name: "pair", years: []string{"1990", "1999"}, want: "year=1990%2C1999"},
		{name: "extra values ignored", years: []string{"1990", "1999", "2005"}, want: "year=1990%2C1999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(Filters{Years: tt.years}))
		})
	}
}

// TestEncode_Page verifies page clamping and omission
func TestEncode_Page(t *testing.T) {
	assert.NotContains(t, Encode(Filters{}), "p=")
	assert.True(t, strings.HasSuffix(Encode(Filters{Page: intPtr(0)}), "&p=1"))
	assert.True(t, strings.HasSuffix(Encode(Filters{Page: intPtr(-3)}), "&p=1"))
	assert.True(t, strings.HasSuffix(Encode(Filters{Page: intPtr(7)}), "&p=7"))
}

// TestEffectivePage verifies the landing page for a request
func TestEffectivePage(t *testing.T) {
	assert.Equal(t, 1, Filters{}.EffectivePage())
	assert.Equal(t, 1, Filters{Page: intPtr(0)}.EffectivePage())
	assert.Equal(t, 3, Filters{Page: intPtr(3)}.EffectivePage())
}

// TestLookups verifies the enumeration tables
func TestLookups(t *testing.T) {
	code, ok := TypeCode("special")
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	_, ok = TypeCode("SPECIAL")
	assert.False(t, ok)

	code, ok = StatusCode("broadcast")
	assert.True(t, ok)
	assert.Equal(t, 1, code)

	assert.True(t, IsGenre("recuentos-de-la-vida"))
	assert.False(t, IsGenre("Shounen"))
	assert.Len(t, Genres(), 40)
}

// TestGenres_ReturnsCopy verifies callers cannot mutate the vocabulary
func TestGenres_ReturnsCopy(t *testing.T) {
	g := Genres()
	g[0] = "mutated"

	assert.True(t, IsGenre("accion"))
	assert.False(t, IsGenre("mutated"))
}
