package pagination

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layout renders markers as "1 2 … 9" for compact table comparisons.
func layout(markers []Marker) string {
	parts := make([]string, len(markers))
	for i, m := range markers {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

func TestWindow_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		current int
		last    int
		want    string
	}{
		{"fewer pages than slots", 3, 5, "1 2 3 4 5"},
		{"exactly max length", 4, 7, "1 2 3 4 5 6 7"},
		{"single page", 1, 1, "1"},
		{"near start", 1, 20, "1 2 3 4 5 … 20"},
		{"near end", 20, 20, "1 … 16 17 18 19 20"},
		{"middle", 10, 20, "1 … 9 10 11 … 20"},
		{"first middle page", 5, 22, "1 … 4 5 6 … 22"},
		{"one page over max length, start", 4, 8, "1 2 3 4 5 … 8"},
		{"one page over max length, end", 5, 8, "1 … 4 5 6 7 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Window(tt.current, tt.last, DefaultMaxLength)
			require.NoError(t, err)
			assert.Equal(t, tt.want, layout(got))
		})
	}
}

// TestWindow_EveryPage pins the crossover between the edge and middle
// layouts for every current page of several listing sizes.
func TestWindow_EveryPage(t *testing.T) {
	tests := []struct {
		current int
		last    int
		want    string
	}{
		// last page 10
		{1, 10, "1 2 3 4 5 … 10"},
		{2, 10, "1 2 3 4 5 … 10"},
		{3, 10, "1 2 3 4 5 … 10"},
		{4, 10, "1 2 3 4 5 … 10"},
		{5, 10, "1 … 4 5 6 … 10"},
		{6, 10, "1 … 5 6 7 … 10"},
		{7, 10, "1 … 6 7 8 9 10"},
		{8, 10, "1 … 6 7 8 9 10"},
		{9, 10, "1 … 6 7 8 9 10"},
		{10, 10, "1 … 6 7 8 9 10"},
		// last page 20
		{1, 20, "1 2 3 4 5 … 20"},
		{2, 20, "1 2 3 4 5 … 20"},
		{3, 20, "1 2 3 4 5 … 20"},
		{4, 20, "1 2 3 4 5 … 20"},
		{5, 20, "1 … 4 5 6 … 20"},
		{6, 20, "1 … 5 6 7 … 20"},
		{7, 20, "1 … 6 7 8 … 20"},
		{8, 20, "1 … 7 8 9 … 20"},
		{9, 20, "1 … 8 9 10 … 20"},
		{10, 20, "1 … 9 10 11 … 20"},
		{11, 20, "1 … 10 11 12 … 20"},
		{12, 20, "1 … 11 12 13 … 20"},
		{13, 20, "1 … 12 13 14 … 20"},
		{14, 20, "1 … 13 14 15 … 20"},
		{15, 20, "1 … 14 15 16 … 20"},
		{16, 20, "1 … 15 16 17 … 20"},
		{17, 20, "1 … 16 17 18 19 20"},
		{18, 20, "1 … 16 17 18 19 20"},
		{19, 20, "1 … 16 17 18 19 20"},
		{20, 20, "1 … 16 17 18 19 20"},
		// last page 21
		{1, 21, "1 2 3 4 5 … 21"},
		{2, 21, "1 2 3 4 5 … 21"},
		{3, 21, "1 2 3 4 5 … 21"},
		{4, 21, "1 2 3 4 5 … 21"},
		{5, 21, "1 … 4 5 6 … 21"},
		{6, 21, "1 … 5 6 7 … 21"},
		{7, 21, "1 … 6 7 8 … 21"},
		{8, 21, "1 … 7 8 9 … 21"},
		{9, 21, "1 … 8 9 10 … 21"},
		{10, 21, "1 … 9 10 11 … 21"},
		{11, 21, "1 … 10 11 12 … 21"},
		{12, 21, "1 … 11 12 13 … 21"},
		{13, 21, "1 … 12 13 14 … 21"},
		{14, 21, "1 … 13 14 15 … 21"},
		{15, 21, "1 … 14 15 16 … 21"},
		{16, 21, "1 … 15 16 17 … 21"},
		{17, 21, "1 … 16 17 18 … 21"},
		{18, 21, "1 … 17 18 19 20 21"},
		{19, 21, "1 … 17 18 19 20 21"},
		{20, 21, "1 … 17 18 19 20 21"},
		{21, 21, "1 … 17 18 19 20 21"},
		// last page 22
		{1, 22, "1 2 3 4 5 … 22"},
		{2, 22, "1 2 3 4 5 … 22"},
		{3, 22, "1 2 3 4 5 … 22"},
		{4, 22, "1 2 3 4 5 … 22"},
		{5, 22, "1 … 4 5 6 … 22"},
		{6, 22, "1 … 5 6 7 … 22"},
		{7, 22, "1 … 6 7 8 … 22"},
		{8, 22, "1 … 7 8 9 … 22"},
		{9, 22, "1 … 8 9 10 … 22"},
		{10, 22, "1 … 9 10 11 … 22"},
		{11, 22, "1 … 10 11 12 … 22"},
		{12, 22, "1 … 11 12 13 … 22"},
		{13, 22, "1 … 12 13 14 … 22"},
		{14, 22, "1 … 13 14 15 … 22"},
		{15, 22, "1 … 14 15 16 … 22"},
		{16, 22, "1 … 15 16 17 … 22"},
		{17, 22, "1 … 16 17 18 … 22"},
		{18, 22, "1 … 17 18 19 … 22"},
		{19, 22, "1 … 18 19 20 21 22"},
		{20, 22, "1 … 18 19 20 21 22"},
		{21, 22, "1 … 18 19 20 21 22"},
		{22, 22, "1 … 18 19 20 21 22"},
	}

	for _, tt := range tests {
		got, err := Window(tt.current, tt.last, DefaultMaxLength)
		require.NoError(t, err)
		assert.Equal(t, tt.want, layout(got), "page %d of %d", tt.current, tt.last)
	}
}

func TestWindow_OtherMaxLengths(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		last      int
		maxLength int
		want      string
	}{
		{"five slots start", 2, 10, 5, "1 2 3 … 10"},
		{"five slots middle", 5, 10, 5, "1 … 5 … 10"},
		{"five slots end", 9, 10, 5, "1 … 8 9 10"},
		{"nine slots start", 5, 30, 9, "1 2 3 4 5 6 7 … 30"},
		{"nine slots middle", 15, 30, 9, "1 … 13 14 15 16 17 … 30"},
		{"nine slots end", 26, 30, 9, "1 … 24 25 26 27 28 29 30"},
		{"six slots crossover", 4, 7, 6, "1 2 3 4 … 7"},
		{"one slot, one page", 1, 1, 1, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Window(tt.current, tt.last, tt.maxLength)
			require.NoError(t, err)
			assert.Equal(t, tt.want, layout(got))
		})
	}
}

func TestWindow_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		last      int
		maxLength int
		wantErr   error
	}{
		{"zero max length", 1, 5, 0, ErrInvalidMaxLength},
		{"negative max length", 1, 5, -7, ErrInvalidMaxLength},
		{"max length above bound", 1, 5, MaxWindowLength + 1, ErrInvalidMaxLength},
		{"max length at max int", 1, math.MaxInt, math.MaxInt, ErrInvalidMaxLength},
		{"no pages", 1, 0, 7, ErrInvalidLastPage},
		{"negative last page", 1, -3, 7, ErrInvalidLastPage},
		{"current page zero", 0, 5, 7, ErrInvalidCurrentPage},
		{"current page past last", 6, 5, 7, ErrInvalidCurrentPage},
		{"window cannot fit", 2, 10, 4, ErrWindowTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Window(tt.current, tt.last, tt.maxLength)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestWindow_HugeLastPage(t *testing.T) {
	last := math.MaxInt
	tests := []struct {
		name    string
		current int
		want    []Marker
	}{
		{"first", 1, []Marker{PageMarker(1), PageMarker(2), PageMarker(3), PageMarker(4), PageMarker(5), Ellipsis, PageMarker(last)}},
		{"middle", last / 2, []Marker{PageMarker(1), Ellipsis, PageMarker(last/2 - 1), PageMarker(last / 2), PageMarker(last/2 + 1), Ellipsis, PageMarker(last)}},
		{"last", last, []Marker{PageMarker(1), Ellipsis, PageMarker(last - 4), PageMarker(last - 3), PageMarker(last - 2), PageMarker(last - 1), PageMarker(last)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Window(tt.current, last, DefaultMaxLength)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindow_LargestFullListing(t *testing.T) {
	got, err := Window(MaxWindowLength, MaxWindowLength, MaxWindowLength)
	require.NoError(t, err)
	require.Len(t, got, MaxWindowLength)
	assert.Equal(t, PageMarker(1), got[0])
	assert.Equal(t, PageMarker(MaxWindowLength), got[MaxWindowLength-1])
}

func TestWindow_SmallMaxLengthWithoutWindowing(t *testing.T) {
	got, err := Window(2, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3", layout(got))
}

func TestWindow_Invariants(t *testing.T) {
	for _, maxLength := range []int{5, 6, 7, 8, 9, 11} {
		for last := 1; last <= 40; last++ {
			for current := 1; current <= last; current++ {
				got, err := Window(current, last, maxLength)
				require.NoError(t, err)
				checkInvariants(t, got, current, last, maxLength)
			}
		}
	}
}

func checkInvariants(t *testing.T, markers []Marker, current, last, maxLength int) {
	t.Helper()
	ctx := []any{"page %d of %d, max %d: %s", current, last, maxLength, layout(markers)}

	require.NotEmpty(t, markers, ctx...)
	assert.Equal(t, PageMarker(1), markers[0], ctx...)
	assert.Equal(t, PageMarker(last), markers[len(markers)-1], ctx...)
	assert.Contains(t, markers, PageMarker(current), ctx...)

	if last <= maxLength {
		assert.Len(t, markers, last, ctx...)
		assert.NotContains(t, markers, Ellipsis, ctx...)
		return
	}
	assert.LessOrEqual(t, len(markers), maxLength, ctx...)

	ellipses := 0
	prevPage := 0
	prevEllipsis := false
	for _, m := range markers {
		if m.IsEllipsis() {
			ellipses++
			assert.False(t, prevEllipsis, ctx...)
			prevEllipsis = true
			continue
		}
		assert.Greater(t, m.Page, prevPage, ctx...)
		if prevEllipsis {
			assert.Greater(t, m.Page-prevPage, 1, ctx...)
		} else if prevPage != 0 {
			assert.Equal(t, 1, m.Page-prevPage, ctx...)
		}
		prevPage = m.Page
		prevEllipsis = false
	}
	assert.LessOrEqual(t, ellipses, 2, ctx...)
}

func TestWindow_Idempotent(t *testing.T) {
	first, err := Window(12, 40, DefaultMaxLength)
	require.NoError(t, err)
	second, err := Window(12, 40, DefaultMaxLength)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarker_String(t *testing.T) {
	assert.Equal(t, "…", Ellipsis.String())
	assert.Equal(t, "12", PageMarker(12).String())
	assert.True(t, Ellipsis.IsEllipsis())
	assert.False(t, PageMarker(3).IsEllipsis())
}
