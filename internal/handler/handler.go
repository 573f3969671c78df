// Package handler contains the HTTP handlers for the folio site.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/folio/internal/domain"
	"github.com/DukeRupert/folio/internal/media"
	"github.com/DukeRupert/folio/internal/middleware"
)

// TemplateRenderer renders named page templates.
type TemplateRenderer interface {
	RenderHTTP(w http.ResponseWriter, name string, data interface{})
	RenderHTTPStatus(w http.ResponseWriter, status int, name string, data interface{})
}

// ContentStore is the read side of the content store the handlers serve.
type ContentStore interface {
	Posts(params domain.PageParams) (domain.PostPage, error)
	PostsByTag(tag string, params domain.PageParams) (domain.PostPage, error)
	Post(slug string) (domain.Post, error)
	Adjacent(slug string) (older, newer *domain.Post)
	Recent(n int) []domain.Post
	Tags() []string
	Projects() []domain.Project
	FeaturedProjects() []domain.Project
	Page(name string) (domain.Page, error)
}

// AssetResolver maps image names from front matter and projects.yaml to
// published URLs.
type AssetResolver interface {
	Asset(name string) (media.Asset, bool)
}

// Site is the site-wide identity shown by the layout.
type Site struct {
	Title   string
	Author  string
	BaseURL string
}

// PageData is the data every page template receives. Page-specific
// values go in Content.
type PageData struct {
	Site        Site
	Title       string // document title; the layout appends the site title
	CurrentPath string
	RequestID   string
	Content     interface{}
}

// ErrorPageData is the Content of the "error" page.
type ErrorPageData struct {
	Status  int
	Heading string
	Message string
}

// base holds what every handler needs to render a page or an error.
type base struct {
	renderer TemplateRenderer
	assets   AssetResolver
	site     Site
	logger   *slog.Logger
}

func (b *base) pageData(r *http.Request, title string, content interface{}) PageData {
	return PageData{
		Site:        b.site,
		Title:       title,
		CurrentPath: r.URL.Path,
		RequestID:   middleware.GetRequestID(r.Context()),
		Content:     content,
	}
}

func (b *base) render(w http.ResponseWriter, r *http.Request, name, title string, content interface{}) {
	b.renderer.RenderHTTP(w, name, b.pageData(r, title, content))
}

// fail maps err to a status and renders the error page. Internal details
// never reach the response.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if acceptsJSON(r) {
		ErrorResponse(w, r, b.logger, err)
		return
	}

	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	logError(b.logger, r, err, code, domain.ErrorOp(err), status)

	content := ErrorPageData{Status: status, Heading: http.StatusText(status), Message: domain.ErrorMessage(err)}
	if status == http.StatusNotFound {
		content.Heading = "Page not found"
		content.Message = "Sorry, we couldn't find the page you're looking for."
	}
	b.renderer.RenderHTTPStatus(w, status, "error", b.pageData(r, content.Heading, content))
}

// notFound renders the 404 page.
func (b *base) notFound(w http.ResponseWriter, r *http.Request) {
	b.fail(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested page was not found"))
}

// image resolves an image reference. Names of published images map to their
// storage URLs; absolute URLs pass through; anything else resolves to
// nothing.
func (b *base) image(ref string) media.Asset {
	if ref == "" {
		return media.Asset{}
	}
	if strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return media.Asset{Name: ref, URL: ref, ThumbnailURL: ref}
	}
	if b.assets != nil {
		if a, ok := b.assets.Asset(ref); ok {
			if a.ThumbnailURL == "" {
				a.ThumbnailURL = a.URL
			}
			return a
		}
	}
	b.logger.Warn("image not published", "name", ref)
	return media.Asset{}
}
