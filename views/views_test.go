package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/striveplanner/strive/content"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

var testSite = SiteConfig{Name: "Strive", URL: "https://example.com", Description: "Plan with purpose"}

func testPost() content.Post {
	return content.Post{
		Slug:      "hello-world",
		Title:     "Hello <World>",
		Excerpt:   "First post",
		Published: time.Date(2025, 9, 9, 0, 0, 0, 0, time.UTC),
		Tags:      []string{"planning"},
		Body:      "<p>body text</p>",
	}
}

func TestHomeListsPosts(t *testing.T) {
	out := render(t, Home(testSite, []content.Post{testPost()}, "", []string{"planning"}))
	for _, want := range []string{
		"<title>Strive</title>",
		`href="/blog/hello-world/"`,
		"Hello &lt;World&gt;",
		"2025-09-09",
		`href="/?tag=planning"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestHomeEmpty(t *testing.T) {
	out := render(t, Home(testSite, nil, "", nil))
	if !strings.Contains(out, "No posts yet.") {
		t.Fatalf("expected empty notice")
	}
}

func TestPostRendersBodyAndJSONLD(t *testing.T) {
	out := render(t, Post(testSite, testPost(), nil))
	if !strings.Contains(out, "<p>body text</p>") {
		t.Fatalf("expected raw body html")
	}
	if !strings.Contains(out, `"@type":"BlogPosting"`) {
		t.Fatalf("expected BlogPosting JSON-LD")
	}
	if !strings.Contains(out, `<link rel="canonical" href="https://example.com/blog/hello-world/">`) {
		t.Fatalf("expected canonical url, got %s", out)
	}
	if strings.Contains(out, "Related posts") {
		t.Fatalf("related section should be omitted without related posts")
	}
}

func TestContactEscapesFormValues(t *testing.T) {
	site := testSite
	site.RecaptchaSiteKey = "site-key"
	out := render(t, Contact(site, ContactForm{
		CSRFToken: "tok",
		Flash:     &Flash{Kind: "error", Message: "Please fill in all fields."},
		Name:      `"><script>`,
	}))
	if strings.Contains(out, `"><script>`) {
		t.Fatalf("form value not escaped")
	}
	if !strings.Contains(out, `name="_csrf" value="tok"`) {
		t.Fatalf("expected csrf token")
	}
	if !strings.Contains(out, "api.js?render=site-key") {
		t.Fatalf("expected recaptcha script")
	}
	if !strings.Contains(out, "flash-error") {
		t.Fatalf("expected flash")
	}
}

func TestContactSiteKeyStaysOutOfScript(t *testing.T) {
	site := testSite
	site.RecaptchaSiteKey = `k");alert(1);//`
	out := render(t, Contact(site, ContactForm{CSRFToken: "tok"}))
	if strings.Contains(out, `k");alert(1)`) || strings.Contains(out, `execute("k`) {
		t.Fatalf("site key reached script source: %s", out)
	}
	if !strings.Contains(out, `data-sitekey="k&#34;);alert(1);//"`) {
		t.Fatalf("expected escaped data-sitekey attribute")
	}
	if !strings.Contains(out, "grecaptcha.execute(siteKey") {
		t.Fatalf("expected key read from data attribute")
	}
}

func TestLayoutNewsletterToggle(t *testing.T) {
	out := render(t, NotFound(testSite))
	if strings.Contains(out, "/api/newsletter/subscribe") {
		t.Fatalf("newsletter form should be hidden")
	}
	site := testSite
	site.Newsletter = true
	out = render(t, NotFound(site))
	if !strings.Contains(out, "/api/newsletter/subscribe") {
		t.Fatalf("newsletter form should be shown")
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "a"}, "https://example.com/blog/a/"},
		{"https://example.com/", []string{"contact"}, "https://example.com/contact/"},
	}
	for _, tt := range tests {
		if got := buildURL(tt.base, tt.segs...); got != tt.want {
			t.Fatalf("buildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}
