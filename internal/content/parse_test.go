package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantHeader string
		wantBody   string
		wantErr    error
	}{
		{"header and body", "---\ntitle: A\n---\nbody\n", "title: A\n", "body\n", nil},
		{"windows line endings", "---\r\ntitle: A\r\n---\r\nbody\r\n", "title: A\n", "body\n", nil},
		{"byte order mark", "\ufeff---\ntitle: A\n---\nbody", "title: A\n", "body", nil},
		{"empty header", "---\n---\nbody", "", "body", nil},
		{"header only", "---\ntitle: A\n---", "title: A\n", "", nil},
		{"no front matter", "# Heading\n", "", "", errNoFrontMatter},
		{"unterminated", "---\ntitle: A\nbody\n", "", "", errUnterminatedMatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, err := splitFrontMatter([]byte(tt.src))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, string(header))
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestParsePost(t *testing.T) {
	src := []byte(`---
title: "Building a Portfolio in Go"
description: Notes on the stack
date: 2024-06-01
updated: 2024-06-03
tags: [Go, templ, go]
cover: portfolio.png
---

## Why

| a | b |
|---|---|
| 1 | 2 |
`)

	post, err := parsePost(newMarkdown(), "posts/portfolio.md", src)
	require.NoError(t, err)

	assert.Equal(t, "building-a-portfolio-in-go", post.Slug)
	assert.Equal(t, "Notes on the stack", post.Description)
	assert.Equal(t, []string{"go", "templ"}, post.Tags)
	assert.Equal(t, "portfolio.png", post.Cover)
	assert.Contains(t, post.HTML, `<h2 id="why">Why</h2>`)
	assert.Contains(t, post.HTML, "<table>")
}

func TestParsePost_ExplicitSlug(t *testing.T) {
	src := []byte("---\ntitle: Anything\nslug: custom-slug\ndate: 2024-01-01\n---\nbody\n")

	post, err := parsePost(newMarkdown(), "posts/x.md", src)
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", post.Slug)
}

func TestParsePost_InvalidSlug(t *testing.T) {
	src := []byte("---\ntitle: Anything\nslug: Not A Slug\ndate: 2024-01-01\n---\nbody\n")

	_, err := parsePost(newMarkdown(), "posts/x.md", src)
	assert.ErrorContains(t, err, "posts/x.md")
}
