package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier decides whether a form token came from a human.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// DefaultRecaptchaEndpoint is Google's reCAPTCHA v3 verification URL.
const DefaultRecaptchaEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// DefaultMinScore is the lowest v3 score accepted as human.
const DefaultMinScore = 0.5

// RecaptchaVerifier checks tokens against the reCAPTCHA siteverify API.
type RecaptchaVerifier struct {
	Secret   string
	Endpoint string
	MinScore float64
	Client   *http.Client
}

// NewRecaptchaVerifier returns a verifier using secret and the default
// endpoint and score threshold.
func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		Secret:   secret,
		Endpoint: DefaultRecaptchaEndpoint,
		MinScore: DefaultMinScore,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify implements Verifier. Without a secret nothing verifies.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if v.Secret == "" || token == "" {
		return false, nil
	}
	form := url.Values{}
	form.Set("secret", v.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("recaptcha: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("recaptcha: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("recaptcha: unexpected status %d", resp.StatusCode)
	}

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("recaptcha: decode response: %w", err)
	}
	return result.Success && result.Score > v.MinScore, nil
}
