package tioanime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   int
	}{
		{
			name:   "no pagination",
			markup: `<ul></ul>`,
			want:   0,
		},
		{
			name:   "single link",
			markup: `<a class="page-link">1</a>`,
			want:   0,
		},
		{
			name:   "second to last",
			markup: `<a class="page-link">1</a><a class="page-link">2</a><a class="page-link">&raquo;</a>`,
			want:   2,
		},
		{
			name:   "padded number",
			markup: `<a class="page-link">1</a><a class="page-link"> 14 </a><a class="page-link">&raquo;</a>`,
			want:   14,
		},
		{
			name:   "not a number",
			markup: `<a class="page-link">&laquo;</a><a class="page-link">&raquo;</a>`,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(parseDocument(t, tt.markup)))
		})
	}
}

// TestTotalPages_Listing verifies the count read from a full listing
func TestTotalPages_Listing(t *testing.T) {
	assert.Equal(t, 2, TotalPages(loadDocument(t, "search_naruto.html")))
	assert.Equal(t, 3, TotalPages(loadDocument(t, "directory.html")))
	assert.Equal(t, 0, TotalPages(loadDocument(t, "search_single.html")))
}

// TestCheckPage verifies the guard passes up to the last page and returns
// the fallback after it
func TestCheckPage(t *testing.T) {
	doc := loadDocument(t, "directory.html")
	fallback := Errorf(KindPageExceeded, "too far")

	assert.Nil(t, CheckPage(doc, 1, fallback))
	assert.Nil(t, CheckPage(doc, 3, fallback))

	err := CheckPage(doc, 4, fallback)
	assert.Same(t, fallback, err)
}

// TestCheckPage_DefaultFallback verifies the default catalog error is used
// when no fallback is given
func TestCheckPage_DefaultFallback(t *testing.T) {
	doc := loadDocument(t, "search_single.html")

	err := CheckPage(doc, 1, nil)
	if assert.NotNil(t, err) {
		assert.True(t, errors.Is(err, ErrDefault))
		assert.Equal(t, KindDefault.Message(), err.Message)
	}
}
