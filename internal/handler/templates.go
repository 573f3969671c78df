package handler

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Date/Time functions
		"year": func() int {
			return time.Now().Year()
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"formatDateISO": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"readingTime": func(minutes int) string {
			if minutes <= 1 {
				return "1 min read"
			}
			return fmt.Sprintf("%d min read", minutes)
		},

		// String functions
		"title": func(v interface{}) string {
			return cases.Title(language.English).String(fmt.Sprint(v))
		},
		"truncate": truncate,
		"join":     strings.Join,

		// Tailwind class composition; later classes win conflicts
		"cn": func(classes ...string) string {
			return twmerge.Merge(classes...)
		},

		// navClass highlights the header link for the current section
		"navClass": func(currentPath, section string) string {
			if currentPath == section || strings.HasPrefix(currentPath, section+"/") {
				return "text-zinc-900 font-medium"
			}
			return ""
		},

		// URL helpers
		"postURL": func(postSlug string) string {
			return "/blog/" + postSlug
		},
		"tagURL": func(tag string) string {
			return "/blog/tags/" + slug.Make(tag)
		},

		// dict builds a map for passing several values to a template,
		// e.g. {{template "tag_list" dict "Tags" .Tags "Current" .Tag}}
		"dict": func(values ...interface{}) map[string]interface{} {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil
				}
				dict[key] = values[i+1]
			}
			return dict
		},

		// HTML rendering functions
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}

// truncate shortens s to at most length runes, appending an ellipsis.
func truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:length]), " ") + "…"
}
