package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/DukeRupert/folio/internal/metrics"
)

// layoutName is the template every page executes. layouts/site.html must
// {{define "site"}} and call the "title" and "content" blocks pages fill in.
const layoutName = "site"

// Renderer manages template parsing and rendering with isolated template sets.
//
// Templates are organized as:
//   - layouts/site.html - base layout
//   - components/**/*.html - reusable components shared by every page
//   - pages/**/*.html - one template set per page, keyed by its path below
//     pages/ without the extension ("home", "blog/index", "blog/post")
type Renderer struct {
	fsys   fs.FS
	logger *slog.Logger
	isDev  bool

	mu        sync.RWMutex
	templates map[string]*template.Template
}

// RendererConfig holds configuration for the renderer.
type RendererConfig struct {
	// FS is the templates root: the embedded web.Templates in production,
	// os.DirFS("web/templates") in development.
	FS     fs.FS
	Logger *slog.Logger
	// IsDev re-parses every template before each render.
	IsDev bool
}

// NewRenderer creates a new template renderer.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	r := &Renderer{
		fsys:      cfg.FS,
		logger:    cfg.Logger,
		isDev:     cfg.IsDev,
		templates: make(map[string]*template.Template),
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) loadTemplates() (map[string]*template.Template, error) {
	componentFiles, err := htmlFiles(r.fsys, "components")
	if err != nil {
		return nil, fmt.Errorf("failed to walk components dir: %w", err)
	}

	base, err := template.New(layoutName).Funcs(TemplateFuncs()).ParseFS(r.fsys, "layouts/"+layoutName+".html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s layout: %w", layoutName, err)
	}

	if len(componentFiles) > 0 {
		base, err = base.ParseFS(r.fsys, componentFiles...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse components: %w", err)
		}
	}

	pageFiles, err := htmlFiles(r.fsys, "pages")
	if err != nil {
		return nil, fmt.Errorf("failed to walk pages dir: %w", err)
	}

	templates := make(map[string]*template.Template, len(pageFiles))
	for _, page := range pageFiles {
		pageTmpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFS(r.fsys, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		// "pages/blog/index.html" is stored as "blog/index"
		name := strings.TrimSuffix(strings.TrimPrefix(page, "pages/"), path.Ext(page))
		templates[name] = pageTmpl
	}

	return templates, nil
}

// htmlFiles lists the .html files below dir. A missing dir yields none.
func htmlFiles(fsys fs.FS, dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".html") {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// Reload re-parses all templates. The previous set stays in place if
// parsing fails.
func (r *Renderer) Reload() error {
	templates, err := r.loadTemplates()
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.templates = templates
	r.mu.Unlock()

	r.logger.Debug("templates loaded", "count", len(templates))
	return nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	// In dev mode, reload templates on each request
	if r.isDev {
		if err := r.Reload(); err != nil {
			return nil, fmt.Errorf("template reload failed: %w", err)
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// Render renders a page to an io.Writer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, err := r.lookup(name)
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteTemplate(w, layoutName, data); err != nil {
		return err
	}
	metrics.PageRendered(name)
	return nil
}

// RenderHTML renders a page and returns the HTML as a string.
func (r *Renderer) RenderHTML(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderHTTP renders a page with a 200 status.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	r.RenderHTTPStatus(w, http.StatusOK, name, data)
}

// RenderHTTPStatus renders a page with the given status. Output is buffered
// so a template error still produces a clean 500.
func (r *Renderer) RenderHTTPStatus(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// ListTemplates returns the sorted names of all loaded pages.
func (r *Renderer) ListTemplates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
