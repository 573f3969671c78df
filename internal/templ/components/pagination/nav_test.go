package pagination

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, d Data, cfg Config) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, Nav(d, cfg).Render(context.Background(), &b))
	return b.String()
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, perPage, want int
	}{
		{0, 6, 1},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{120, 6, 20},
		{5, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.perPage), "total=%d perPage=%d", tt.total, tt.perPage)
	}
}

func TestNewData_PrevNextTargets(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		wantPrev    bool
		wantPrevNum int
		wantNext    bool
		wantNextNum int
	}{
		{"first page", 1, false, 0, true, 2},
		{"middle page", 10, true, 9, true, 11},
		{"last page", 20, true, 19, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewData(tt.current, 120, 6, DefaultMaxLength)
			require.NoError(t, err)

			assert.Equal(t, 20, d.TotalPages)
			assert.Equal(t, tt.wantPrev, d.HasPrevious)
			assert.Equal(t, tt.wantPrevNum, d.PrevPage)
			assert.Equal(t, tt.wantNext, d.HasNext)
			assert.Equal(t, tt.wantNextNum, d.NextPage)
		})
	}
}

func TestNewData_RejectsOutOfRangePage(t *testing.T) {
	_, err := NewData(4, 12, 6, DefaultMaxLength)
	assert.ErrorIs(t, err, ErrInvalidCurrentPage)
}

func TestNewData_EmptyListing(t *testing.T) {
	d, err := NewData(1, 0, 6, DefaultMaxLength)
	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalPages)
	assert.Equal(t, []Marker{PageMarker(1)}, d.Items)
	assert.False(t, d.HasNext)
}

func TestConfig_PageURL(t *testing.T) {
	cfg := Config{BaseURL: "/blog/"}
	assert.Equal(t, "/blog", cfg.PageURL(1))
	assert.Equal(t, "/blog/page/2", cfg.PageURL(2))

	root := Config{}
	assert.Equal(t, "/", root.PageURL(1))
	assert.Equal(t, "/page/3", root.PageURL(3))
}

func TestNav_SinglePageRendersNothing(t *testing.T) {
	d, err := NewData(1, 3, 6, DefaultMaxLength)
	require.NoError(t, err)
	assert.Empty(t, render(t, d, Config{BaseURL: "/blog"}))
}

func TestNav_MiddlePage(t *testing.T) {
	d, err := NewData(10, 120, 6, DefaultMaxLength)
	require.NoError(t, err)

	html := render(t, d, Config{BaseURL: "/blog"})

	assert.Contains(t, html, `aria-label="Pagination"`)
	assert.Contains(t, html, `href="/blog/page/9" rel="prev"`)
	assert.Contains(t, html, `href="/blog/page/11" rel="next"`)
	assert.Contains(t, html, `href="/blog"`)
	assert.Contains(t, html, `href="/blog/page/20"`)
	assert.Contains(t, html, `aria-current="page">10</span>`)
	assert.Equal(t, 2, strings.Count(html, "&hellip;"))
	assert.NotContains(t, html, `href="/blog/page/10"`)
}

func TestNav_InertArrowsAtBounds(t *testing.T) {
	first, err := NewData(1, 20, 6, DefaultMaxLength)
	require.NoError(t, err)
	html := render(t, first, Config{BaseURL: "/blog"})
	assert.NotContains(t, html, `rel="prev"`)
	assert.Contains(t, html, `aria-disabled="true">&larr;</span>`)

	last, err := NewData(4, 20, 6, DefaultMaxLength)
	require.NoError(t, err)
	html = render(t, last, Config{BaseURL: "/blog", Label: "Posts tagged go"})
	assert.NotContains(t, html, `rel="next"`)
	assert.Contains(t, html, `aria-disabled="true">&rarr;</span>`)
	assert.Contains(t, html, `aria-label="Posts tagged go"`)
}

func TestNav_EscapesBaseURL(t *testing.T) {
	d, err := NewData(1, 20, 6, DefaultMaxLength)
	require.NoError(t, err)
	html := render(t, d, Config{BaseURL: `/blog/tags/"><script>`})
	assert.NotContains(t, html, "<script>")
}

func TestNav_PageLinksCarryClassAndLabel(t *testing.T) {
	d, err := NewData(2, 20, 6, DefaultMaxLength)
	require.NoError(t, err)

	html := render(t, d, Config{BaseURL: "/blog"})

	assert.Contains(t, html, `<a href="/blog/page/3" class="`+linkClasses()+`" aria-label="Page 3">3</a>`)
	assert.Contains(t, html, `<span class="`+currentClasses()+`" aria-current="page">2</span>`)
	assert.True(t, strings.HasPrefix(html, `<nav class="flex items-center justify-center gap-1"`))
	assert.True(t, strings.HasSuffix(html, `</nav>`))
}

func TestNav_CanceledContext(t *testing.T) {
	d, err := NewData(2, 20, 6, DefaultMaxLength)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var b strings.Builder
	err = Nav(d, Config{BaseURL: "/blog"}).Render(ctx, &b)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, b.String())
}
