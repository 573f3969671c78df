package domain

// DefaultPerPage is the number of posts on a blog listing page.
const DefaultPerPage = 6

// PageParams selects one page of a listing. Page is 1-indexed.
type PageParams struct {
	Page    int
	PerPage int
}

// NewPageParams builds PageParams, falling back to DefaultPerPage when
// perPage is not positive. The page number is kept as given so that
// out-of-range requests surface as errors.
func NewPageParams(page, perPage int) PageParams {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// Offset returns the zero-based index of the first item on the page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts    []Post
	Page     int
	PerPage  int
	Total    int
	LastPage int
}
