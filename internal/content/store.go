// Package content loads the site's posts, projects and standalone pages from
// a content directory and serves paginated views of them.
//
// The content directory is laid out as:
//
//	posts/*.md      blog posts with YAML front matter
//	pages/*.md      standalone pages (about, disclaimer, privacy)
//	projects.yaml   portfolio entries
//	images/*        covers and screenshots, published by the media package
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/DukeRupert/folio/internal/domain"
	"github.com/DukeRupert/folio/internal/metrics"
)

const (
	postsDir     = "posts"
	pagesDir     = "pages"
	projectsFile = "projects.yaml"
)

// Options configures a Store.
type Options struct {
	// ShowDrafts includes posts marked draft: true. Enabled in development.
	ShowDrafts bool

	Logger *slog.Logger
}

// Store holds parsed site content in memory. It is safe for concurrent use;
// Reload swaps in a freshly parsed snapshot.
type Store struct {
	fsys       fs.FS
	md         goldmark.Markdown
	showDrafts bool
	logger     *slog.Logger

	mu       sync.RWMutex
	snapshot *snapshot
}

// snapshot is one fully parsed view of the content directory.
type snapshot struct {
	posts    []domain.Post // newest first
	bySlug   map[string]int
	tags     []string
	projects []domain.Project
	pages    map[string]domain.Page
}

// NewStore parses the content in fsys. Any malformed file fails the load.
func NewStore(fsys fs.FS, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		fsys:       fsys,
		md:         newMarkdown(),
		showDrafts: opts.ShowDrafts,
		logger:     logger,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the content directory. On failure the previous content
// stays in place.
func (s *Store) Reload() error {
	const op = "content.Reload"

	snap, err := s.load()
	if err != nil {
		metrics.ContentLoaded(false, 0, 0, 0, 0)
		return domain.Wrap(err, domain.EINTERNAL, op, "content could not be loaded")
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	metrics.ContentLoaded(true, len(snap.posts), len(snap.projects), len(snap.pages), len(snap.tags))
	s.logger.Info("content loaded",
		"posts", len(snap.posts),
		"projects", len(snap.projects),
		"pages", len(snap.pages),
		"tags", len(snap.tags),
	)
	return nil
}

func (s *Store) load() (*snapshot, error) {
	posts, err := s.loadPosts()
	if err != nil {
		return nil, err
	}
	projects, err := s.loadProjects()
	if err != nil {
		return nil, err
	}
	pages, err := s.loadPages()
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		posts:    posts,
		bySlug:   make(map[string]int, len(posts)),
		projects: projects,
		pages:    pages,
	}
	for i, p := range posts {
		snap.bySlug[p.Slug] = i
	}
	snap.tags = lo.Uniq(lo.FlatMap(posts, func(p domain.Post, _ int) []string {
		return p.Tags
	}))
	sort.Strings(snap.tags)
	return snap, nil
}

func (s *Store) loadPosts() ([]domain.Post, error) {
	files, err := markdownFiles(s.fsys, postsDir)
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, name := range files {
		src, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		post, err := parsePost(s.md, name, src)
		if err != nil {
			return nil, err
		}
		if post.Draft && !s.showDrafts {
			s.logger.Debug("skipping draft", "slug", post.Slug)
			continue
		}
		if other, dup := seen[post.Slug]; dup {
			return nil, domain.Errorf(domain.ECONFLICT, "content.loadPosts",
				"posts %s and %s share slug %q", other, name, post.Slug)
		}
		seen[post.Slug] = name
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Slug < posts[j].Slug
		}
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

func (s *Store) loadProjects() ([]domain.Project, error) {
	src, err := fs.ReadFile(s.fsys, projectsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", projectsFile, err)
	}

	var doc struct {
		Projects []domain.Project `yaml:"projects"`
	}
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", projectsFile, err)
	}

	for i := range doc.Projects {
		if err := doc.Projects[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: project %d: %w", projectsFile, i+1, err)
		}
	}

	sort.SliceStable(doc.Projects, func(i, j int) bool {
		return doc.Projects[i].Order < doc.Projects[j].Order
	})
	return doc.Projects, nil
}

func (s *Store) loadPages() (map[string]domain.Page, error) {
	files, err := markdownFiles(s.fsys, pagesDir)
	if err != nil {
		return nil, err
	}

	pages := make(map[string]domain.Page, len(files))
	for _, name := range files {
		src, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		page, err := parsePage(s.md, name, src)
		if err != nil {
			return nil, err
		}
		pages[page.Name] = page
	}
	return pages, nil
}

// markdownFiles lists *.md files directly under dir. A missing dir is empty.
func markdownFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, path.Join(dir, e.Name()))
	}
	return files, nil
}

func (s *Store) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Posts returns one page of all posts, newest first.
func (s *Store) Posts(params domain.PageParams) (domain.PostPage, error) {
	return paginate("content.Posts", s.current().posts, params)
}

// PostsByTag returns one page of the posts tagged tag.
func (s *Store) PostsByTag(tag string, params domain.PageParams) (domain.PostPage, error) {
	const op = "content.PostsByTag"

	tagged := lo.Filter(s.current().posts, func(p domain.Post, _ int) bool {
		return p.HasTag(tag)
	})
	if len(tagged) == 0 {
		return domain.PostPage{}, domain.NotFound(op, "tag", tag)
	}
	return paginate(op, tagged, params)
}

// Post returns the post with the given slug.
func (s *Store) Post(slug string) (domain.Post, error) {
	snap := s.current()
	i, ok := snap.bySlug[slug]
	if !ok {
		return domain.Post{}, domain.NotFound("content.Post", "post", slug)
	}
	return snap.posts[i], nil
}

// Adjacent returns the posts published just before and after the post with
// the given slug. Either may be nil at the ends of the archive.
func (s *Store) Adjacent(slug string) (older, newer *domain.Post) {
	snap := s.current()
	i, ok := snap.bySlug[slug]
	if !ok {
		return nil, nil
	}
	if i+1 < len(snap.posts) {
		p := snap.posts[i+1]
		older = &p
	}
	if i > 0 {
		p := snap.posts[i-1]
		newer = &p
	}
	return older, newer
}

// Recent returns up to n of the newest posts.
func (s *Store) Recent(n int) []domain.Post {
	posts := s.current().posts
	if n < 0 {
		n = 0
	}
	return append([]domain.Post(nil), lo.Subset(posts, 0, uint(n))...)
}

// Tags returns every tag in use, sorted.
func (s *Store) Tags() []string {
	return append([]string(nil), s.current().tags...)
}

// Projects returns all projects in display order.
func (s *Store) Projects() []domain.Project {
	return append([]domain.Project(nil), s.current().projects...)
}

// FeaturedProjects returns the projects flagged for the home page.
func (s *Store) FeaturedProjects() []domain.Project {
	return lo.Filter(s.current().projects, func(p domain.Project, _ int) bool {
		return p.Featured
	})
}

// Page returns the standalone page with the given name.
func (s *Store) Page(name string) (domain.Page, error) {
	page, ok := s.current().pages[name]
	if !ok {
		return domain.Page{}, domain.NotFound("content.Page", "page", name)
	}
	return page, nil
}

// paginate slices posts for params. An empty listing has a single empty page;
// any page past the last one is not found.
func paginate(op string, posts []domain.Post, params domain.PageParams) (domain.PostPage, error) {
	if params.Page < 1 {
		return domain.PostPage{}, domain.Invalid(op, fmt.Sprintf("page %d is not a valid page number", params.Page))
	}
	if params.PerPage < 1 {
		params.PerPage = domain.DefaultPerPage
	}

	total := len(posts)
	lastPage := (total + params.PerPage - 1) / params.PerPage
	if lastPage < 1 {
		lastPage = 1
	}
	if params.Page > lastPage {
		return domain.PostPage{}, domain.NotFound(op, "page", fmt.Sprint(params.Page))
	}

	window := lo.Subset(posts, params.Offset(), uint(params.PerPage))
	return domain.PostPage{
		Posts:    append([]domain.Post(nil), window...),
		Page:     params.Page,
		PerPage:  params.PerPage,
		Total:    total,
		LastPage: lastPage,
	}, nil
}
