package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/striveplanner/strive/content"
	"github.com/striveplanner/strive/markdown"
)

func TestWritePostRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path, err := writePost(dir, postData{
		Title:     `Why "Strive"?`,
		Published: "2025-09-09",
		Tags:      []string{"vision", "intention"},
		Excerpt:   "Short: with a colon",
	})
	if err != nil {
		t.Fatalf("writePost: %v", err)
	}
	if filepath.Base(path) != "why-strive.md" {
		t.Fatalf("unexpected file name %q", path)
	}

	r, err := content.LoadDir(os.DirFS(dir), markdown.NewRenderer())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	post, ok := r.GetPost("why-strive")
	if !ok {
		t.Fatalf("post not found")
	}
	if post.Title != `Why "Strive"?` || post.Excerpt != "Short: with a colon" {
		t.Fatalf("unexpected metadata: %+v", post)
	}
	if len(post.Tags) != 2 || post.Tags[0] != "vision" {
		t.Fatalf("unexpected tags: %v", post.Tags)
	}
}

func TestWritePostRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	data := postData{Title: "Hello", Published: "2025-01-01"}
	if _, err := writePost(dir, data); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := writePost(dir, data); err == nil {
		t.Fatalf("expected error on second write")
	}
}

func TestWritePostRejectsEmptySlug(t *testing.T) {
	if _, err := writePost(t.TempDir(), postData{Title: "???"}); err == nil {
		t.Fatalf("expected error for title without slug characters")
	}
}
