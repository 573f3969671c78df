// Package pagination provides the pagination window and the nav component
// used by paginated listing pages.
package pagination

import (
	"fmt"
	"strings"
)

// Data contains pagination information for display.
type Data struct {
	CurrentPage int
	TotalPages  int
	PerPage     int
	Total       int
	HasPrevious bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Items       []Marker
}

// Config allows customization of pagination links.
type Config struct {
	BaseURL string // e.g., "/blog" or "/blog/tags/go"
	Label   string // aria-label for the nav element, defaults to "Pagination"
}

// PageURL maps a page number to its route. Page 1 is the listing root.
func (c Config) PageURL(page int) string {
	base := strings.TrimSuffix(c.BaseURL, "/")
	if page <= 1 {
		if base == "" {
			return "/"
		}
		return base
	}
	return fmt.Sprintf("%s/page/%d", base, page)
}

func (c Config) label() string {
	if c.Label == "" {
		return "Pagination"
	}
	return c.Label
}

// TotalPages returns the number of pages needed for totalItems.
// An empty listing still has one page.
func TotalPages(totalItems, perPage int) int {
	if perPage < 1 || totalItems <= 0 {
		return 1
	}
	return (totalItems + perPage - 1) / perPage
}

// NewData builds the display data for currentPage of a listing with
// totalItems items, perPage to a page.
func NewData(currentPage, totalItems, perPage, maxLength int) (Data, error) {
	totalPages := TotalPages(totalItems, perPage)

	items, err := Window(currentPage, totalPages, maxLength)
	if err != nil {
		return Data{}, err
	}

	d := Data{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PerPage:     perPage,
		Total:       totalItems,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
		Items:       items,
	}
	if d.HasPrevious {
		d.PrevPage = currentPage - 1
	}
	if d.HasNext {
		d.NextPage = currentPage + 1
	}
	return d, nil
}
