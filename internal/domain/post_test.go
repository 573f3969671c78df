package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPost() Post {
	return Post{
		Slug:  "hello-world",
		Title: "Hello, world",
		Date:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Tags:  []string{"go", "web-dev"},
	}
}

func TestPost_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *Post)
		wantField string
	}{
		{"valid", func(p *Post) {}, ""},
		{"missing title", func(p *Post) { p.Title = "" }, "title"},
		{"missing slug", func(p *Post) { p.Slug = "" }, "slug"},
		{"uppercase slug", func(p *Post) { p.Slug = "Hello-World" }, "slug"},
		{"double hyphen slug", func(p *Post) { p.Slug = "hello--world" }, "slug"},
		{"missing date", func(p *Post) { p.Date = time.Time{} }, "date"},
		{"updated before date", func(p *Post) { p.Updated = p.Date.Add(-time.Hour) }, "updated"},
		{"bad tag", func(p *Post) { p.Tags = []string{"Go Lang"} }, "tags[0]"},
		{"long description", func(p *Post) { p.Description = strings.Repeat("x", 501) }, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPost()
			tt.mutate(&p)
			err := p.Validate()

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tt.wantField)
			assert.Equal(t, "Post.Validate", ve.Op)
		})
	}
}

func TestProject_Validate(t *testing.T) {
	p := Project{Name: "folio", Summary: "This site", Repo: "https://github.com/DukeRupert/folio"}
	assert.NoError(t, p.Validate())

	p.URL = "not a url"
	p.Summary = ""
	err := p.Validate()

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "must be a valid URL", ve.Fields["url"])
	assert.Equal(t, "is required", ve.Fields["summary"])
}

func TestPost_HasTag(t *testing.T) {
	p := validPost()
	assert.True(t, p.HasTag("go"))
	assert.False(t, p.HasTag("rust"))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("a few words"))
	assert.Equal(t, 1, ReadingTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadingTime(strings.Repeat("word ", 201)))
}

func TestPageParams(t *testing.T) {
	p := NewPageParams(3, 0)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 12, p.Offset())

	p = NewPageParams(1, 10)
	assert.Equal(t, 0, p.Offset())
}

func TestErrorHelpers(t *testing.T) {
	err := NotFound("content.Post", "post", "missing")
	assert.Equal(t, ENOTFOUND, ErrorCode(err))
	assert.Equal(t, `post "missing" not found`, ErrorMessage(err))
	assert.Equal(t, "content.Post", ErrorOp(err))

	internal := Internal(errors.New("disk on fire"), "content.Load", "load failed")
	assert.Equal(t, EINTERNAL, ErrorCode(internal))
	assert.NotContains(t, ErrorMessage(internal), "disk")
	assert.ErrorContains(t, errors.Unwrap(internal), "disk on fire")

	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("plain")))
	assert.Equal(t, "", ErrorCode(nil))
}
