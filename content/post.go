// Package content resolves blog posts from markdown documents.
//
// A Resolver is built once from the documents available at startup and is
// read-only afterwards, so it can be shared by concurrent handlers without
// locking.
package content

import "time"

// DateLayout is the layout of the published field in post front matter.
const DateLayout = "2006-01-02"

// Post is one published article.
type Post struct {
	Slug      string
	Title     string
	Excerpt   string
	Published time.Time
	Tags      []string
	Body      string // rendered HTML
	FileName  string
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// Date returns the published date in DateLayout.
func (p Post) Date() string {
	return p.Published.Format(DateLayout)
}

// Metadata is the front matter block of a post document.
type Metadata struct {
	Title     string   `yaml:"title" toml:"title"`
	Published string   `yaml:"published" toml:"published"`
	Tags      []string `yaml:"tags" toml:"tags"`
	Excerpt   string   `yaml:"excerpt" toml:"excerpt"`
}

// Document is a markdown source as handed to the Resolver.
type Document struct {
	FileName string
	Metadata Metadata
	Body     []byte // markdown without front matter
}

// Renderer turns a markdown body into HTML.
type Renderer interface {
	Render(src []byte) (string, error)
}
