package views

// SiteConfig holds the site-wide settings templates need. The root package
// builds it from its own configuration so nothing is hardcoded here.
type SiteConfig struct {
	Name             string
	URL              string
	Description      string
	Author           string
	RecaptchaSiteKey string // empty disables the reCAPTCHA script
	Newsletter       bool   // show the signup form in the footer
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// Flash is a one-shot notice shown after a redirect.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// ContactForm is the state of the contact page. Field values are echoed
// back after a failed submission.
type ContactForm struct {
	CSRFToken string
	Flash     *Flash
	Name      string
	Email     string
	Subject   string
	Message   string
}
