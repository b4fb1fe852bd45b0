package strive

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/striveplanner/strive/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, posts []content.Post) error {
	base := a.Config.URL
	home := sitemapURL{Loc: BuildURL(base), Priority: "1.0"}
	if len(posts) > 0 {
		home.LastMod = posts[0].Date()
	}
	urls := []sitemapURL{
		home,
		{Loc: BuildURL(base, "contact"), Priority: "0.5"},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:      BuildURL(base, "blog", p.Slug),
			LastMod:  p.Date(),
			Priority: "0.8",
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
