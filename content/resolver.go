package content

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/striveplanner/strive/markdown"
)

// Resolver maps normalized slugs to posts.
type Resolver struct {
	posts  []Post // published descending
	bySlug map[string]int
	tags   []string
}

// NewResolver builds a Resolver from docs. Every document body is rendered
// once here. It fails on any document whose metadata cannot be used and on
// two documents that normalize to the same slug.
func NewResolver(docs []Document, r Renderer) (*Resolver, error) {
	posts := make([]Post, 0, len(docs))
	origin := make(map[string]string, len(docs))
	for _, d := range docs {
		p, err := buildPost(d, r)
		if err != nil {
			return nil, err
		}
		if prev, ok := origin[p.Slug]; ok {
			return nil, fmt.Errorf("content: %q and %q both resolve to slug %q", prev, d.FileName, p.Slug)
		}
		origin[p.Slug] = d.FileName
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published.After(posts[j].Published)
	})

	res := &Resolver{
		posts:  posts,
		bySlug: make(map[string]int, len(posts)),
	}
	set := make(map[string]struct{})
	for i, p := range posts {
		res.bySlug[p.Slug] = i
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	for t := range set {
		res.tags = append(res.tags, t)
	}
	sort.Strings(res.tags)
	return res, nil
}

func buildPost(d Document, r Renderer) (Post, error) {
	slug := SlugFromFileName(d.FileName)
	if slug == "" {
		return Post{}, fmt.Errorf("content: %q: file name yields an empty slug", d.FileName)
	}
	title := strings.TrimSpace(d.Metadata.Title)
	if title == "" {
		return Post{}, fmt.Errorf("content: %q: title is required", d.FileName)
	}
	published, err := time.Parse(DateLayout, strings.TrimSpace(d.Metadata.Published))
	if err != nil {
		return Post{}, fmt.Errorf("content: %q: invalid published date: %w", d.FileName, err)
	}
	body, err := r.Render(d.Body)
	if err != nil {
		return Post{}, fmt.Errorf("content: %q: %w", d.FileName, err)
	}
	return Post{
		Slug:      slug,
		Title:     title,
		Excerpt:   strings.TrimSpace(d.Metadata.Excerpt),
		Published: published,
		Tags:      normalizeTags(d.Metadata.Tags),
		Body:      body,
		FileName:  d.FileName,
	}, nil
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// LoadDir scans the *.md files at the root of fsys in file name order, parses
// their front matter and builds a Resolver.
func LoadDir(fsys fs.FS, r Renderer) (*Resolver, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("content: read posts dir: %w", err)
	}
	var docs []Document
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		src, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("content: read %q: %w", e.Name(), err)
		}
		var meta Metadata
		body, err := markdown.SplitFrontMatter(src, &meta)
		if err != nil {
			return nil, fmt.Errorf("content: %q: %w", e.Name(), err)
		}
		docs = append(docs, Document{FileName: e.Name(), Metadata: meta, Body: body})
	}
	return NewResolver(docs, r)
}

// ListPosts returns all posts, most recently published first. Posts with the
// same date keep their input order.
func (r *Resolver) ListPosts() []Post {
	out := make([]Post, len(r.posts))
	for i, p := range r.posts {
		out[i] = p.clone()
	}
	return out
}

// GetPost returns the post for slug. The query is normalized first, so
// "Why-Did-I-Build-Strive" finds "why-did-i-build-strive".
func (r *Resolver) GetPost(slug string) (Post, bool) {
	i, ok := r.bySlug[Normalize(slug)]
	if !ok {
		return Post{}, false
	}
	return r.posts[i].clone(), true
}

// GetPostBody returns the rendered body of the post for slug.
func (r *Resolver) GetPostBody(slug string) (string, bool) {
	p, ok := r.GetPost(slug)
	if !ok {
		return "", false
	}
	return p.Body, true
}

// ListTags returns the sorted set of tags across all posts.
func (r *Resolver) ListTags() []string {
	return slices.Clone(r.tags)
}

// PostsByTag returns the posts carrying tag, in ListPosts order.
func (r *Resolver) PostsByTag(tag string) []Post {
	tag = normalizeTag(tag)
	if tag == "" {
		return r.ListPosts()
	}
	var out []Post
	for _, p := range r.posts {
		if slices.Contains(p.Tags, tag) {
			out = append(out, p.clone())
		}
	}
	return out
}

// clone copies the tag slice so callers cannot modify resolver state.
func (p Post) clone() Post {
	p.Tags = slices.Clone(p.Tags)
	return p
}

// Len returns the number of posts.
func (r *Resolver) Len() int {
	return len(r.posts)
}
