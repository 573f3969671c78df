package content

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/DukeRupert/folio/internal/domain"
)

var (
	fence = []byte("---\n")

	errNoFrontMatter      = errors.New("missing front matter")
	errUnterminatedMatter = errors.New("front matter is not terminated")
)

// frontMatter is the YAML header of a markdown file.
type frontMatter struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Description string    `yaml:"description"`
	Date        time.Time `yaml:"date"`
	Updated     time.Time `yaml:"updated"`
	Tags        []string  `yaml:"tags"`
	Draft       bool      `yaml:"draft"`
	Cover       string    `yaml:"cover"`
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// splitFrontMatter separates a "---" fenced YAML header from the body.
func splitFrontMatter(src []byte) (header, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(src, fence) {
		return nil, nil, errNoFrontMatter
	}
	rest := src[len(fence):]

	// Empty header: the closing fence follows immediately.
	if bytes.HasPrefix(rest, fence) {
		return nil, rest[len(fence):], nil
	}
	if bytes.Equal(rest, []byte("---")) {
		return nil, nil, nil
	}

	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")+1], nil, nil
		}
		return nil, nil, errUnterminatedMatter
	}
	return rest[:end+1], rest[end+len("\n---\n"):], nil
}

// parsePost turns a markdown file into a Post. name is the file path and
// supplies the slug when the front matter has neither slug nor title.
func parsePost(md goldmark.Markdown, name string, src []byte) (domain.Post, error) {
	header, body, err := splitFrontMatter(src)
	if err != nil {
		return domain.Post{}, fmt.Errorf("%s: %w", name, err)
	}

	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return domain.Post{}, fmt.Errorf("%s: decode front matter: %w", name, err)
	}

	var html bytes.Buffer
	if err := md.Convert(body, &html); err != nil {
		return domain.Post{}, fmt.Errorf("%s: render markdown: %w", name, err)
	}

	post := domain.Post{
		Slug:        fm.Slug,
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Date:        fm.Date,
		Updated:     fm.Updated,
		Tags:        normalizeTags(fm.Tags),
		Draft:       fm.Draft,
		Cover:       fm.Cover,
		HTML:        html.String(),
		ReadingTime: domain.ReadingTime(string(body)),
	}
	if post.Slug == "" {
		post.Slug = slugFor(name, post.Title)
	}

	if err := post.Validate(); err != nil {
		return domain.Post{}, fmt.Errorf("%s: %w", name, err)
	}
	return post, nil
}

// parsePage turns a markdown file into a standalone Page. Front matter is
// optional; the title falls back to the file name.
func parsePage(md goldmark.Markdown, name string, src []byte) (domain.Page, error) {
	var fm frontMatter
	header, body, err := splitFrontMatter(src)
	switch {
	case errors.Is(err, errNoFrontMatter):
		body = src
	case err != nil:
		return domain.Page{}, fmt.Errorf("%s: %w", name, err)
	default:
		if err := yaml.Unmarshal(header, &fm); err != nil {
			return domain.Page{}, fmt.Errorf("%s: decode front matter: %w", name, err)
		}
	}

	var html bytes.Buffer
	if err := md.Convert(body, &html); err != nil {
		return domain.Page{}, fmt.Errorf("%s: render markdown: %w", name, err)
	}

	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = base
	}
	return domain.Page{Name: base, Title: title, HTML: html.String()}, nil
}

func slugFor(name, title string) string {
	if title != "" {
		return slug.Make(title)
	}
	return slug.Make(strings.TrimSuffix(path.Base(name), path.Ext(name)))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		s := slug.Make(t)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
