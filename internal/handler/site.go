package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/folio/internal/domain"
	"github.com/DukeRupert/folio/internal/media"
)

// HomeRecentPosts is the number of posts listed on the home page.
const HomeRecentPosts = 3

// PostView is a post with its cover image resolved.
type PostView struct {
	domain.Post
	Cover media.Asset
}

// ProjectView is a project with its screenshot resolved.
type ProjectView struct {
	domain.Project
	Image media.Asset
}

// HomeData is the Content of the "home" page.
type HomeData struct {
	Posts    []PostView
	Projects []ProjectView
}

// ProjectsData is the Content of the "projects" page.
type ProjectsData struct {
	Projects []ProjectView
}

// StaticPageData is the Content of the "page" page.
type StaticPageData struct {
	Page domain.Page
}

// SiteHandler serves the home page, the projects page and the markdown-backed
// standalone pages.
type SiteHandler struct {
	base
	content ContentStore
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(content ContentStore, assets AssetResolver, renderer TemplateRenderer, site Site, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		base: base{
			renderer: renderer,
			assets:   assets,
			site:     site,
			logger:   logger,
		},
		content: content,
	}
}

// RegisterRoutes registers the site routes with the provided mux.
//
// Routes:
// - GET /            -> Home
// - GET /projects    -> Projects
// - GET /about       -> about.md
// - GET /disclaimer  -> disclaimer.md
// - GET /privacy     -> privacy.md
//
// Unmatched paths fall through to NotFound.
func (h *SiteHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /projects", h.Projects)
	mux.HandleFunc("GET /about", h.StaticPage("about"))
	mux.HandleFunc("GET /disclaimer", h.StaticPage("disclaimer"))
	mux.HandleFunc("GET /privacy", h.StaticPage("privacy"))
	mux.HandleFunc("/", h.NotFound)
}

// Home shows the most recent posts and the featured projects.
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := HomeData{
		Posts:    h.postViews(h.content.Recent(HomeRecentPosts)),
		Projects: h.projectViews(h.content.FeaturedProjects()),
	}
	h.render(w, r, "home", "", data)
}

// Projects lists every portfolio entry.
func (h *SiteHandler) Projects(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "projects", "Projects", ProjectsData{
		Projects: h.projectViews(h.content.Projects()),
	})
}

// StaticPage returns a handler rendering pages/<name>.md from the content
// directory.
func (h *SiteHandler) StaticPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.content.Page(name)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.render(w, r, "page", page.Title, StaticPageData{Page: page})
	}
}

// NotFound renders the 404 page for any unmatched route.
func (h *SiteHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r)
}

func (b *base) postViews(posts []domain.Post) []PostView {
	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{Post: p, Cover: b.image(p.Cover)}
	}
	return views
}

func (b *base) projectViews(projects []domain.Project) []ProjectView {
	views := make([]ProjectView, len(projects))
	for i, p := range projects {
		views[i] = ProjectView{Project: p, Image: b.image(p.Image)}
	}
	return views
}
