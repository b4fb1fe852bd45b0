// Package strive is the Strive Planner website: a markdown blog, a contact
// form delivered by email, and a newsletter signup, served with Echo and templ.
//
// Templates are supplied through ViewFuncs so a deployment can restyle any
// page; DefaultViews returns the stock components from the views package.
package strive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/striveplanner/strive/contact"
	"github.com/striveplanner/strive/content"
	"github.com/striveplanner/strive/markdown"
	"github.com/striveplanner/strive/metrics"
	"github.com/striveplanner/strive/newsletter"
	"github.com/striveplanner/strive/views"
)

// ViewFuncs holds the templ components the handlers render. Nil fields fall
// back to DefaultViews.
type ViewFuncs struct {
	Home        func(site views.SiteConfig, posts []content.Post, activeTag string, tags []string) templ.Component
	Post        func(site views.SiteConfig, post content.Post, related []content.Post) templ.Component
	Contact     func(site views.SiteConfig, form views.ContactForm) templ.Component
	NotFound    func(site views.SiteConfig) templ.Component
	ServerError func(site views.SiteConfig) templ.Component
}

// DefaultViews returns the stock page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		Post:        views.Post,
		Contact:     views.Contact,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

func (v *ViewFuncs) fillDefaults() {
	d := DefaultViews()
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.Contact == nil {
		v.Contact = d.Contact
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
}

// Contact throttle: a burst of three submissions per client, one more every
// twenty seconds.
const (
	contactEvery = 20 * time.Second
	contactBurst = 3
	contactIdle  = 15 * time.Minute
)

// App wires together the post resolver, newsletter and contact services,
// handlers, middleware and templates.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Posts      *content.Resolver
	Newsletter *newsletter.Service
	Contact    *contact.Service
	Views      ViewFuncs

	logger    zerolog.Logger
	loggerSet bool

	postsFS  fs.FS
	store    newsletter.Store
	closers  []func() error
	limiter  newsletter.Limiter
	window   *newsletter.FixedWindow // nil when the limiter is shared through Redis
	throttle *contact.Throttle
	verifier contact.Verifier
	mailer   contact.Mailer

	customRoutes []func(*App)
	staticDir    string
}

// New creates an App with the given configuration and views. Call Init
// before serving.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	v.fillDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v,
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if !a.loggerSet {
		a.logger = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}
	return a
}

// WithPostsFS reads posts from fsys instead of Config.PostsDir.
func WithPostsFS(fsys fs.FS) Option {
	return func(a *App) {
		a.postsFS = fsys
	}
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Init validates the configuration, loads every post, opens the subscriber
// store and registers middleware and routes. Any content error aborts
// startup.
func (a *App) Init(ctx context.Context) error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("strive: invalid config: %w", err)
	}

	fsys := a.postsFS
	if fsys == nil {
		fsys = os.DirFS(a.Config.PostsDir)
	}
	posts, err := content.LoadDir(fsys, markdown.NewRenderer())
	if err != nil {
		return fmt.Errorf("strive: load posts: %w", err)
	}
	a.Posts = posts
	metrics.PostsLoaded.Set(float64(posts.Len()))
	a.logger.Info().Int("posts", posts.Len()).Str("dir", a.Config.PostsDir).Msg("posts loaded")

	if err := a.initNewsletter(ctx); err != nil {
		return err
	}
	a.initContact()

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) initNewsletter(ctx context.Context) error {
	if a.Config.DisableNewsletter && a.store == nil {
		a.logger.Warn().Msg("newsletter disabled: subscribe requests will return 503")
	} else if a.store == nil {
		store, err := newsletter.OpenStore(ctx, a.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("strive: open subscriber store: %w", err)
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
	}

	if a.limiter == nil {
		if a.Config.RedisURL != "" {
			rdb, err := newsletter.OpenRedis(ctx, a.Config.RedisURL)
			if err != nil {
				return fmt.Errorf("strive: connect redis: %w", err)
			}
			a.closers = append(a.closers, rdb.Close)
			a.limiter = newsletter.NewRedisLimiter(rdb, newsletter.DefaultMaxRequests, newsletter.DefaultWindow)
		} else {
			a.window = newsletter.NewFixedWindow(newsletter.DefaultMaxRequests, newsletter.DefaultWindow)
			a.limiter = a.window
		}
	} else if fw, ok := a.limiter.(*newsletter.FixedWindow); ok {
		a.window = fw
	}

	a.Newsletter = newsletter.NewService(a.limiter, a.store, a.logger)
	return nil
}

func (a *App) initContact() {
	if a.verifier == nil {
		a.verifier = contact.NewRecaptchaVerifier(a.Config.RecaptchaSecret)
	}
	if a.mailer == nil {
		if a.Config.ResendAPIKey == "" {
			a.logger.Warn().Msg("RESEND_API_KEY not set: contact messages cannot be delivered")
		}
		a.mailer = contact.NewResendMailer(resend.NewClient(a.Config.ResendAPIKey), a.logger)
	}
	a.throttle = contact.NewThrottle(contactEvery, contactBurst, contactIdle)
	a.Contact = contact.NewService(a.verifier, a.mailer, a.Config.ContactFrom, a.Config.ContactTo, a.logger)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", handleHealth)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/contact/", a.handleContactPage)
	e.POST("/contact/", a.handleContactForm)

	api := e.Group("/api")
	api.POST("/contact", a.handleContactAPI)
	api.POST("/newsletter/subscribe", a.handleSubscribe)
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
// The in-memory limiter and contact throttle sweepers run alongside the
// server.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	if a.window != nil {
		g.Go(func() error { return a.window.Run(gCtx) })
	}
	g.Go(func() error { return a.throttle.Run(gCtx) })
	g.Go(func() error { return a.reportLimiterSize(gCtx) })

	g.Go(func() error {
		a.logger.Info().Str("addr", a.Config.Addr).Msg("starting HTTP server")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) reportLimiterSize(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if a.window != nil {
				metrics.RateLimitEntries.WithLabelValues("newsletter").Set(float64(a.window.Len()))
			}
			metrics.RateLimitEntries.WithLabelValues("contact").Set(float64(a.throttle.Len()))
		}
	}
}

// Close releases the subscriber store and Redis connection.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:             a.Config.Name,
		URL:              a.Config.URL,
		Description:      a.Config.Description,
		Author:           a.Config.Author,
		RecaptchaSiteKey: a.Config.RecaptchaSiteKey,
		Newsletter:       a.store != nil,
	}
}
