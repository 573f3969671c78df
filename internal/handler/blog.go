package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gosimple/slug"

	"github.com/DukeRupert/folio/internal/domain"
	"github.com/DukeRupert/folio/internal/templ/components/pagination"
)

// =============================================================================
// Template Data Types
// =============================================================================

// BlogListData is the Content of the "blog/index" page, shared by the full
// listing and the per-tag listings.
type BlogListData struct {
	Heading    string
	Tag        string // empty for the full listing
	Posts      []PostView
	Tags       []string
	Pagination pagination.Data
	Nav        template.HTML // rendered pagination.Nav; empty for a single page
}

// BlogPostData is the Content of the "blog/post" page.
type BlogPostData struct {
	Post  PostView
	Older *domain.Post
	Newer *domain.Post
}

// =============================================================================
// Handler Configuration
// =============================================================================

// BlogConfig configures the blog listings.
type BlogConfig struct {
	PostsPerPage        int
	PaginationMaxLength int
}

// BlogHandler serves the paginated blog listings and individual posts.
type BlogHandler struct {
	base
	content   ContentStore
	perPage   int
	maxLength int
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(content ContentStore, assets AssetResolver, renderer TemplateRenderer, site Site, cfg BlogConfig, logger *slog.Logger) *BlogHandler {
	perPage := cfg.PostsPerPage
	if perPage < 1 {
		perPage = domain.DefaultPerPage
	}
	maxLength := cfg.PaginationMaxLength
	if maxLength < 1 {
		maxLength = pagination.DefaultMaxLength
	}

	return &BlogHandler{
		base: base{
			renderer: renderer,
			assets:   assets,
			site:     site,
			logger:   logger,
		},
		content:   content,
		perPage:   perPage,
		maxLength: maxLength,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers all blog routes with the provided mux.
//
// Routes:
// - GET /blog                      -> Index (page 1)
// - GET /blog/page/{n}             -> Page (page n; 1 redirects to /blog)
// - GET /blog/{slug}               -> Show
// - GET /blog/tags/{tag}           -> Tag (page 1; other spellings redirect to the slug)
// - GET /blog/tags/{tag}/page/{n}  -> TagPage
func (h *BlogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /blog", h.Index)
	mux.HandleFunc("GET /blog/page/{n}", h.Page)
	mux.HandleFunc("GET /blog/{slug}", h.Show)
	mux.HandleFunc("GET /blog/tags/{tag}", h.Tag)
	mux.HandleFunc("GET /blog/tags/{tag}/page/{n}", h.TagPage)
}

// =============================================================================
// Listings
// =============================================================================

// Index shows the first page of all posts.
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "", 1)
}

// Page shows page n of all posts.
func (h *BlogHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, ok := h.pageNumber(w, r, "/blog")
	if !ok {
		return
	}
	h.list(w, r, "", page)
}

// Tag shows the first page of posts with a tag.
func (h *BlogHandler) Tag(w http.ResponseWriter, r *http.Request) {
	tag, ok := h.canonicalTag(w, r, "")
	if !ok {
		return
	}
	h.list(w, r, tag, 1)
}

// TagPage shows page n of posts with a tag.
func (h *BlogHandler) TagPage(w http.ResponseWriter, r *http.Request) {
	tag, ok := h.canonicalTag(w, r, "/page/"+r.PathValue("n"))
	if !ok {
		return
	}
	page, ok := h.pageNumber(w, r, tagURL(tag))
	if !ok {
		return
	}
	h.list(w, r, tag, page)
}

// canonicalTag returns the {tag} path segment when it is already in slug
// form, the form tags are stored in. Other spellings redirect to the slug
// URL with suffix appended; a tag with no slug form is a 404.
func (h *BlogHandler) canonicalTag(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	raw := r.PathValue("tag")
	tag := slug.Make(raw)
	if tag == "" {
		h.notFound(w, r)
		return "", false
	}
	if tag != raw {
		http.Redirect(w, r, tagURL(tag)+suffix, http.StatusMovedPermanently)
		return "", false
	}
	return tag, true
}

// pageNumber parses the {n} path segment. Page 1 redirects to the listing
// root so it has a single URL; anything that is not a canonical positive
// integer is a 404.
func (h *BlogHandler) pageNumber(w http.ResponseWriter, r *http.Request, root string) (int, bool) {
	raw := r.PathValue("n")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || strconv.Itoa(n) != raw {
		h.notFound(w, r)
		return 0, false
	}
	if n == 1 {
		http.Redirect(w, r, root, http.StatusMovedPermanently)
		return 0, false
	}
	return n, true
}

func (h *BlogHandler) list(w http.ResponseWriter, r *http.Request, tag string, page int) {
	params := domain.NewPageParams(page, h.perPage)

	var (
		result domain.PostPage
		err    error
	)
	if tag == "" {
		result, err = h.content.Posts(params)
	} else {
		result, err = h.content.PostsByTag(tag, params)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data, err := pagination.NewData(result.Page, result.Total, result.PerPage, h.maxLength)
	if err != nil {
		h.fail(w, r, domain.Internal(err, "BlogHandler.list", "pagination failed"))
		return
	}

	cfg := pagination.Config{BaseURL: "/blog", Label: "Blog pages"}
	heading := "Blog"
	if tag != "" {
		cfg = pagination.Config{BaseURL: tagURL(tag), Label: fmt.Sprintf("Pages of posts tagged %s", tag)}
		heading = fmt.Sprintf("Posts tagged “%s”", tag)
	}

	nav, err := templ.ToGoHTML(r.Context(), pagination.Nav(data, cfg))
	if err != nil {
		h.fail(w, r, domain.Internal(err, "BlogHandler.list", "pagination render failed"))
		return
	}

	title := heading
	if page > 1 {
		title = fmt.Sprintf("%s, page %d", heading, page)
	}

	h.render(w, r, "blog/index", title, BlogListData{
		Heading:    heading,
		Tag:        tag,
		Posts:      h.postViews(result.Posts),
		Tags:       h.content.Tags(),
		Pagination: data,
		Nav:        nav,
	})
}

// =============================================================================
// Posts
// =============================================================================

// Show renders a single post with links to its neighbours.
func (h *BlogHandler) Show(w http.ResponseWriter, r *http.Request) {
	postSlug := r.PathValue("slug")

	post, err := h.content.Post(postSlug)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	older, newer := h.content.Adjacent(postSlug)
	h.render(w, r, "blog/post", post.Title, BlogPostData{
		Post:  PostView{Post: post, Cover: h.image(post.Cover)},
		Older: older,
		Newer: newer,
	})
}

func tagURL(tag string) string {
	return "/blog/tags/" + tag
}
