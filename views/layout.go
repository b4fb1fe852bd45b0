// Package views holds the site's default page components. They are plain
// templ components so callers can swap any of them through the root
// package's ViewFuncs.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

var esc = templ.EscapeString

// writeAll writes each part to w, stopping at the first error.
func writeAll(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

// Layout wraps body in the HTML document shell: head metadata, navigation
// and footer.
func Layout(site SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		description := meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		canonical := meta.URL
		if canonical == "" {
			canonical = buildURL(site.URL)
		}
		jsonLD := meta.JSONLD
		if jsonLD == "" {
			jsonLD = WebsiteJsonLD(site)
		}

		err := writeAll(w,
			"<!DOCTYPE html>\n<html lang=\"en\"><head>",
			"<meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">",
			"<title>", esc(title), "</title>",
			"<meta name=\"description\" content=\"", esc(description), "\">",
			"<link rel=\"canonical\" href=\"", esc(canonical), "\">",
			"<meta property=\"og:title\" content=\"", esc(title), "\">",
			"<meta property=\"og:description\" content=\"", esc(description), "\">",
			"<meta property=\"og:type\" content=\"", esc(ogType), "\">",
			"<meta property=\"og:url\" content=\"", esc(canonical), "\">",
			"<link rel=\"alternate\" type=\"application/rss+xml\" title=\"", esc(site.Name), "\" href=\"/feed.xml\">",
			"<link rel=\"icon\" href=\"/favicon.svg\" type=\"image/svg+xml\">",
			"<link rel=\"stylesheet\" href=\"/public/styles.css\">",
			"<script type=\"application/ld+json\">", jsonLD, "</script>",
			"</head><body>",
			"<header class=\"site-header\"><a class=\"brand\" href=\"/\">", esc(site.Name), "</a>",
			"<nav><a href=\"/\">Blog</a> <a href=\"/contact/\">Contact</a></nav></header>",
			"<main>",
		)
		if err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if err := writeAll(w, "</main><footer class=\"site-footer\">"); err != nil {
			return err
		}
		if site.Newsletter {
			if err := newsletterForm().Render(ctx, w); err != nil {
				return err
			}
		}
		return writeAll(w,
			"<p>&copy; ", esc(site.Name), "</p></footer></body></html>",
		)
	})
}

func newsletterForm() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writeAll(w,
			"<form id=\"newsletter\" class=\"newsletter\">",
			"<label for=\"newsletter-email\">Get new posts by email</label>",
			"<input id=\"newsletter-email\" type=\"email\" name=\"email\" required placeholder=\"you@example.com\">",
			"<button type=\"submit\">Subscribe</button>",
			"<p class=\"newsletter-status\" role=\"status\"></p></form>",
			`<script>
document.getElementById("newsletter").addEventListener("submit", async function (ev) {
  ev.preventDefault();
  var status = this.querySelector(".newsletter-status");
  var email = this.querySelector("input[name=email]").value;
  try {
    var res = await fetch("/api/newsletter/subscribe", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({email: email})
    });
    var data = await res.json();
    status.textContent = data.message || data.error || "";
  } catch (e) {
    status.textContent = "Something went wrong. Please try again.";
  }
});
</script>`,
		)
	})
}
