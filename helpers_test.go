package strive

import "testing"

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://striveplanner.org", nil, "https://striveplanner.org"},
		{"https://striveplanner.org", []string{"blog", "hello"}, "https://striveplanner.org/blog/hello/"},
		{"https://striveplanner.org/", []string{"contact"}, "https://striveplanner.org/contact/"},
		{"http://localhost:3000", []string{"blog", "a b"}, "http://localhost:3000/blog/a%20b/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Fatalf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	a, _ := newTestApp(t, SiteConfig{})
	posts := a.Posts.ListPosts()
	why, _ := a.Posts.GetPost("why-did-i-build-strive")
	related := FilterRelatedPosts(why, posts)
	if len(related) != 1 || related[0].Slug != "where-there-is-no-vision-the-people-perish" {
		t.Fatalf("unexpected related posts: %v", related)
	}
}
