package tioanime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	for _, name := range []string{"*", "episodes", "", "Movies"} {
		_, err := ParseCategory(name)
		assert.True(t, errors.Is(err, ErrInvalidParameter), "%q should be rejected", name)
	}
}

// TestExtractLatest verifies each category reads its own part of the home
// page and leaves the others empty
func TestExtractLatest(t *testing.T) {
	doc := loadDocument(t, "home.html")
	e := testExtractor()

	chapters := e.ExtractLatest(doc, CategoryChapters)
	require.Len(t, chapters.Chapters, 2)
	assert.Equal(t, ArticleItem{
		Name:      "One Piece 1050",
		ID:        "one-piece-1050",
		PosterURL: testOrigin + "/uploads/thumbs/5.jpg",
	}, chapters.Chapters[0])
	assert.Nil(t, chapters.Animes)

	animes := e.ExtractLatest(doc, CategoryAnimes)
	require.Len(t, animes.Animes, 2)
	assert.Equal(t, "bocchi-the-rock", animes.Animes[0].ID)
	assert.Equal(t, "blue-lock", animes.Animes[1].ID)

	assert.Len(t, e.ExtractLatest(doc, CategoryMovies).Movies, 1)
	assert.Len(t, e.ExtractLatest(doc, CategoryOVAs).OVAs, 2)
	assert.Empty(t, e.ExtractLatest(doc, CategorySpecials).Specials)
}

// TestExtractAllLatest verifies the aggregate equals each category
// extracted on its own
func TestExtractAllLatest(t *testing.T) {
	doc := loadDocument(t, "home.html")
	e := testExtractor()

	all := e.ExtractAllLatest(doc)
	for _, c := range Categories() {
		one := e.ExtractLatest(doc, c)
		assert.Equal(t, one.Items(c), all.Items(c), "category %s", c)
	}
}

func TestLatestItems_Unknown(t *testing.T) {
	l := &Latest{}
	assert.Nil(t, l.Items(Category("nope")))
}
