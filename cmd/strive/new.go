package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/striveplanner/strive/content"
)

// postData holds the template variables for a new post.
type postData struct {
	Title     string
	Published string
	Tags      []string
	Excerpt   string
}

var postTemplate = template.Must(template.New("post").Funcs(template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}).Parse(`---
title: {{quote .Title}}
published: {{.Published}}
tags: [{{range $i, $t := .Tags}}{{if $i}}, {{end}}{{quote $t}}{{end}}]
excerpt: {{quote .Excerpt}}
---

# {{.Title}}

`))

func runNewPost(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if title == "" {
		return errors.New("usage: strive new-post <title>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.PostsDir
	if dir == "" {
		dir = "posts"
	}
	path, err := writePost(dir, postData{
		Title:     title,
		Published: time.Now().Format(content.DateLayout),
		Tags:      cmd.StringSlice("tag"),
		Excerpt:   cmd.String("excerpt"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("  created %s\n", path)
	return nil
}

// writePost renders data into dir/<slug>.md and refuses to overwrite.
func writePost(dir string, data postData) (string, error) {
	slug := content.Normalize(data.Title)
	if slug == "" {
		return "", fmt.Errorf("title %q has no letters or digits", data.Title)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, slug+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("post %q already exists", path)
		}
		return "", err
	}
	defer f.Close()
	if err := postTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return path, nil
}
