package pagination

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultMaxLength is the number of slots the blog pagination shows.
const DefaultMaxLength = 7

// MinWindowLength is the smallest maxLength that can hold a windowed layout:
// first page, ellipsis, current page, ellipsis, last page.
const MinWindowLength = 5

// MaxWindowLength bounds maxLength, and with it the size of a full listing.
const MaxWindowLength = 1 << 10

var (
	ErrInvalidMaxLength   = errors.New("pagination: max length out of range")
	ErrInvalidLastPage    = errors.New("pagination: last page must be at least 1")
	ErrInvalidCurrentPage = errors.New("pagination: current page out of range")
	ErrWindowTooSmall     = errors.New("pagination: max length too small for a windowed layout")
)

// Kind distinguishes page markers from gap markers.
type Kind int

const (
	KindPage Kind = iota
	KindEllipsis
)

// Marker is one rendered unit of a pagination control.
type Marker struct {
	Kind Kind
	Page int // zero for ellipsis markers
}

// Ellipsis is the gap placeholder between two runs of pages.
var Ellipsis = Marker{Kind: KindEllipsis}

// PageMarker returns a marker for page n.
func PageMarker(n int) Marker {
	return Marker{Kind: KindPage, Page: n}
}

// IsEllipsis reports whether m is a gap placeholder.
func (m Marker) IsEllipsis() bool {
	return m.Kind == KindEllipsis
}

func (m Marker) String() string {
	if m.IsEllipsis() {
		return "…"
	}
	return strconv.Itoa(m.Page)
}

// Window returns the page markers to display for currentPage out of lastPage.
//
// When every page fits in maxLength slots the full listing is returned.
// Otherwise the window always keeps page 1 and lastPage and uses a single
// ellipsis near the edges or two ellipses around a run centred on currentPage:
//
//	1 2 3 4 5 … 20
//	1 … 9 10 11 … 20
//	1 … 16 17 18 19 20
//
// Out-of-range input is reported as an error rather than clamped.
func Window(currentPage, lastPage, maxLength int) ([]Marker, error) {
	switch {
	case maxLength < 1 || maxLength > MaxWindowLength:
		return nil, fmt.Errorf("%w: got %d, want 1 to %d", ErrInvalidMaxLength, maxLength, MaxWindowLength)
	case lastPage < 1:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLastPage, lastPage)
	case currentPage < 1 || currentPage > lastPage:
		return nil, fmt.Errorf("%w: page %d of %d", ErrInvalidCurrentPage, currentPage, lastPage)
	}

	if lastPage <= maxLength {
		return pageRun(1, lastPage), nil
	}

	if maxLength < MinWindowLength {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrWindowTooSmall, maxLength, MinWindowLength)
	}

	edge := maxLength - 2       // pages in a run anchored at page 1 or lastPage
	side := (maxLength - 5) / 2 // neighbours shown either side of currentPage
	reach := edge - side        // current pages up to here are drawn inside an edge run

	switch {
	case currentPage <= reach:
		markers := pageRun(1, edge)
		return append(markers, Ellipsis, PageMarker(lastPage)), nil

	case currentPage > lastPage-reach:
		markers := make([]Marker, 0, maxLength)
		markers = append(markers, PageMarker(1), Ellipsis)
		return append(markers, pageRun(lastPage-edge+1, lastPage)...), nil
	}

	markers := make([]Marker, 0, maxLength)
	markers = append(markers, PageMarker(1), Ellipsis)
	markers = append(markers, pageRun(currentPage-side, currentPage+side)...)
	return append(markers, Ellipsis, PageMarker(lastPage)), nil
}

// pageRun returns page markers from..to inclusive, with room for two more.
// Callers keep to-from below MaxWindowLength; counting from zero keeps the
// loop finite when to is math.MaxInt.
func pageRun(from, to int) []Marker {
	count := to - from + 1
	markers := make([]Marker, 0, count+2)
	for i := 0; i < count; i++ {
		markers = append(markers, PageMarker(from+i))
	}
	return markers
}
