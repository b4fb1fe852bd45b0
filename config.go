package strive

import (
	"fmt"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/striveplanner/strive/contact"
	"github.com/striveplanner/strive/newsletter"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Strive Planner")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr     string `yaml:"addr"`      // Listen address (default ":3000")
	PostsDir string `yaml:"posts_dir"` // Markdown posts directory (default "posts")

	DatabaseURL       string `yaml:"database_url"`       // SQLite path or postgres:// URL (default "data/strive.db")
	DisableNewsletter bool   `yaml:"disable_newsletter"` // Run without a subscriber store
	RedisURL          string `yaml:"redis_url"`          // Shared rate limiter; in-memory when empty

	SessionSecret string `yaml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	RecaptchaSiteKey string `yaml:"recaptcha_site_key"`
	RecaptchaSecret  string `yaml:"recaptcha_secret"`
	ResendAPIKey     string `yaml:"resend_api_key"`
	ContactFrom      string `yaml:"contact_from"` // default "Strive Planner Contact <onboarding@resend.dev>"
	ContactTo        string `yaml:"contact_to"`   // default "support@striveplanner.org"

	LogLevel  string `yaml:"log_level"`  // default "info"
	LogFormat string `yaml:"log_format"` // "json" (default) or "console"
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Strive Planner"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsDir == "" {
		c.PostsDir = "posts"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "data/strive.db"
	}
	if c.ContactFrom == "" {
		c.ContactFrom = "Strive Planner Contact <onboarding@resend.dev>"
	}
	if c.ContactTo == "" {
		c.ContactTo = "support@striveplanner.org"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
}

// Validate checks the configuration after defaults are applied.
func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.URL, validation.Required, is.RequestURL),
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.PostsDir, validation.Required),
		validation.Field(&c.SessionSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("json", "console")),
	)
}

// LoadConfig reads a YAML file into cfg, expanding ${VAR} references from
// the environment first.
func LoadConfig(filename string, cfg *SiteConfig) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return nil
}

// ConfigFromEnv builds a SiteConfig from environment variables. Unset
// variables keep the defaults applied by New.
func ConfigFromEnv() SiteConfig {
	return SiteConfig{
		Name:              EnvOr("SITE_NAME", ""),
		URL:               EnvOr("SITE_URL", ""),
		Description:       EnvOr("SITE_DESCRIPTION", ""),
		Author:            EnvOr("SITE_AUTHOR", ""),
		Addr:              EnvOr("ADDR", ""),
		PostsDir:          EnvOr("POSTS_DIR", ""),
		DatabaseURL:       EnvOr("DATABASE_URL", ""),
		DisableNewsletter: envBool("DISABLE_NEWSLETTER"),
		RedisURL:          EnvOr("REDIS_URL", ""),
		SessionSecret:     EnvOr("SESSION_SECRET", ""),
		CookieSecure:      envBool("COOKIE_SECURE"),
		RecaptchaSiteKey:  EnvOr("RECAPTCHA_SITE_KEY", ""),
		RecaptchaSecret:   EnvOr("RECAPTCHA_SECRET_KEY", ""),
		ResendAPIKey:      EnvOr("RESEND_API_KEY", ""),
		ContactFrom:       EnvOr("CONTACT_FROM", ""),
		ContactTo:         EnvOr("CONTACT_TO", ""),
		LogLevel:          EnvOr("LOG_LEVEL", ""),
		LogFormat:         EnvOr("LOG_FORMAT", ""),
	}
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the logger built from LogLevel and LogFormat.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.logger = l
		a.loggerSet = true
	}
}

// WithStore supplies the subscriber store instead of opening DatabaseURL.
func WithStore(s newsletter.Store) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithLimiter supplies the newsletter rate limiter.
func WithLimiter(l newsletter.Limiter) Option {
	return func(a *App) {
		a.limiter = l
	}
}

// WithVerifier replaces the reCAPTCHA verifier.
func WithVerifier(v contact.Verifier) Option {
	return func(a *App) {
		a.verifier = v
	}
}

// WithMailer replaces the Resend mailer.
func WithMailer(m contact.Mailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}
