package views

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/striveplanner/strive/content"
	"github.com/striveplanner/strive/markdown"
)

// Home lists posts, newest first, with tag filters.
func Home(site SiteConfig, posts []content.Post, activeTag string, tags []string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeAll(w, "<section class=\"intro\"><h1>", esc(site.Name), "</h1>"); err != nil {
			return err
		}
		if site.Description != "" {
			if err := writeAll(w, "<p>", esc(site.Description), "</p>"); err != nil {
				return err
			}
		}
		if err := writeAll(w, "</section>"); err != nil {
			return err
		}
		if err := tagBar(tags, activeTag).Render(ctx, w); err != nil {
			return err
		}
		if len(posts) == 0 {
			return writeAll(w, "<p class=\"empty\">No posts yet.</p>")
		}
		if err := writeAll(w, "<ul class=\"posts\">"); err != nil {
			return err
		}
		for _, p := range posts {
			if err := postSummary(p).Render(ctx, w); err != nil {
				return err
			}
		}
		return writeAll(w, "</ul>")
	})
	meta := PageMeta{Title: site.Name, URL: buildURL(site.URL)}
	return Layout(site, meta, body)
}

func tagBar(tags []string, active string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(tags) == 0 {
			return nil
		}
		if err := writeAll(w, "<nav class=\"tags\"><a class=\"", TagClass(active == ""), "\" href=\"/\">All</a>"); err != nil {
			return err
		}
		for _, t := range tags {
			err := writeAll(w,
				" <a class=\"", TagClass(t == active), "\" href=\"/?tag=", esc(PathEscape(t)), "\">", esc(t), "</a>",
			)
			if err != nil {
				return err
			}
		}
		return writeAll(w, "</nav>")
	})
}

func postSummary(p content.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		err := writeAll(w,
			"<li class=\"post-summary\"><a href=\"", esc(p.Link()), "\"><h2>", esc(p.Title), "</h2></a>",
			"<time datetime=\"", p.Date(), "\">", p.Date(), "</time>",
		)
		if err != nil {
			return err
		}
		if p.Excerpt != "" {
			if err := writeAll(w, "<p>", esc(p.Excerpt), "</p>"); err != nil {
				return err
			}
		}
		return writeAll(w, "</li>")
	})
}

// Post renders one article followed by posts sharing a tag with it.
func Post(site SiteConfig, post content.Post, related []content.Post) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		err := writeAll(w,
			"<article class=\"post\"><header><h1>", esc(post.Title), "</h1>",
			"<time datetime=\"", post.Date(), "\">", post.Date(), "</time>",
		)
		if err != nil {
			return err
		}
		if len(post.Tags) > 0 {
			if err := writeAll(w, "<ul class=\"post-tags\">"); err != nil {
				return err
			}
			for _, t := range post.Tags {
				if err := writeAll(w, "<li><a class=\"", TagClass(false), "\" href=\"/?tag=", esc(PathEscape(t)), "\">", esc(t), "</a></li>"); err != nil {
					return err
				}
			}
			if err := writeAll(w, "</ul>"); err != nil {
				return err
			}
		}
		if err := writeAll(w, "</header><div class=\"prose\">"); err != nil {
			return err
		}
		if err := markdown.HTML(post.Body).Render(ctx, w); err != nil {
			return err
		}
		if err := writeAll(w, "</div></article>"); err != nil {
			return err
		}
		if len(related) == 0 {
			return nil
		}
		if err := writeAll(w, "<aside class=\"related\"><h2>Related posts</h2><ul class=\"posts\">"); err != nil {
			return err
		}
		for _, p := range related {
			if err := postSummary(p).Render(ctx, w); err != nil {
				return err
			}
		}
		return writeAll(w, "</ul></aside>")
	})
	meta := PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         buildURL(site.URL, "blog", post.Slug),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(site, post),
	}
	return Layout(site, meta, body)
}

// Contact renders the contact form. With a reCAPTCHA site key the token is
// requested on submit and sent in the g-recaptcha-response field.
func Contact(site SiteConfig, form ContactForm) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeAll(w, "<section class=\"contact\"><h1>Contact</h1>"); err != nil {
			return err
		}
		if form.Flash != nil {
			if err := writeAll(w, "<p class=\"flash flash-", esc(form.Flash.Kind), "\" role=\"status\">", esc(form.Flash.Message), "</p>"); err != nil {
				return err
			}
		}
		err := writeAll(w,
			"<form id=\"contact-form\" method=\"post\" action=\"/contact/\">",
			"<input type=\"hidden\" name=\"_csrf\" value=\"", esc(form.CSRFToken), "\">",
			"<input type=\"hidden\" name=\"g-recaptcha-response\" value=\"\">",
			"<label>Name <input type=\"text\" name=\"name\" required maxlength=\"200\" value=\"", esc(form.Name), "\"></label>",
			"<label>Email <input type=\"email\" name=\"email\" required value=\"", esc(form.Email), "\"></label>",
			"<label>Subject <input type=\"text\" name=\"subject\" required maxlength=\"200\" value=\"", esc(form.Subject), "\"></label>",
			"<label>Message <textarea name=\"message\" required rows=\"8\">", esc(form.Message), "</textarea></label>",
			"<button type=\"submit\">Send</button></form></section>",
		)
		if err != nil {
			return err
		}
		if site.RecaptchaSiteKey == "" {
			return nil
		}
		key := esc(site.RecaptchaSiteKey)
		return writeAll(w,
			"<script src=\"https://www.google.com/recaptcha/api.js?render=", esc(url.QueryEscape(site.RecaptchaSiteKey)), "\"></script>",
			"<script data-sitekey=\"", key, "\">",
			`
var siteKey = document.currentScript.dataset.sitekey;
document.getElementById("contact-form").addEventListener("submit", function (ev) {
  var form = this;
  if (form.dataset.ready) { return; }
  ev.preventDefault();
  grecaptcha.ready(function () {
    grecaptcha.execute(siteKey, {action: "contact"}).then(function (token) {
      form.querySelector("input[name=g-recaptcha-response]").value = token;
      form.dataset.ready = "1";
      form.submit();
    });
  });
});
</script>`,
		)
	})
	meta := PageMeta{
		Title:       "Contact",
		Description: "Get in touch with " + site.Name + ".",
		URL:         buildURL(site.URL, "contact"),
	}
	return Layout(site, meta, body)
}

// NotFound is the 404 page.
func NotFound(site SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writeAll(w, "<section class=\"error\"><h1>Page not found</h1>",
			"<p>The page you were looking for does not exist.</p><p><a href=\"/\">Back to the blog</a></p></section>")
	})
	return Layout(site, PageMeta{Title: "Not found"}, body)
}

// ServerError is the 5xx page.
func ServerError(site SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writeAll(w, "<section class=\"error\"><h1>Something went wrong</h1>",
			"<p>Please try again in a moment.</p></section>")
	})
	return Layout(site, PageMeta{Title: "Error"}, body)
}
