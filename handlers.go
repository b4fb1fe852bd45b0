package strive

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	tag := strings.ToLower(strings.TrimSpace(c.QueryParam("tag")))
	posts := a.Posts.PostsByTag(tag)
	return Render(c, a.Views.Home(a.siteView(), posts, tag, a.Posts.ListTags()))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	if unescaped, err := url.PathUnescape(slug); err == nil {
		slug = unescaped
	}
	post, ok := a.Posts.GetPost(slug)
	if !ok {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteView()))
	}
	if slug != post.Slug {
		return c.Redirect(http.StatusMovedPermanently, post.Link())
	}
	related := FilterRelatedPosts(post, a.Posts.ListPosts())
	return Render(c, a.Views.Post(a.siteView(), post, related))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Posts.ListPosts())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Posts.ListPosts())
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots serves robots.txt from the static directory, or a generated
// one pointing at the sitemap when none exists.
func (a *App) handleRobots(c echo.Context) error {
	if err := c.File(a.staticDir + "/robots.txt"); err == nil {
		return nil
	}
	sitemap := strings.TrimSuffix(BuildURL(a.Config.URL), "/") + "/sitemap.xml"
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: "+sitemap+"\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.siteView()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(a.siteView()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
