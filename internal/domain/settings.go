package domain

import (
	"net/url"
	"strings"
	"time"
)

// Settings is the validated client configuration shared by every fetch
// path. It is treated as an immutable snapshot: updates replace the whole
// value, never mutate it in place.
type Settings struct {
	BaseURL      string
	Token        string
	SearchFilter string

	PerPage    int
	Timeout    time.Duration
	MaxRetries int

	ProjectsInterval time.Duration
	JobsInterval     time.Duration

	DumpResponses bool
	DumpDir       string
}

func DefaultSettings() Settings {
	return Settings{
		BaseURL:          "https://api.github.com",
		PerPage:          100,
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		ProjectsInterval: 60 * time.Second,
		JobsInterval:     30 * time.Second,
	}
}

var tokenPrefixes = []string{"ghp_", "gho_", "ghu_", "ghs_", "ghr_"}

// Validate checks the settings against the rules the remote API expects.
// It returns an APIError with kind APIErrConfigValidation on the first
// violation.
func (s Settings) Validate() error {
	if s.BaseURL == "" {
		return ConfigValidationError("base_url", "base URL cannot be empty")
	}
	if !strings.HasPrefix(s.BaseURL, "http://") && !strings.HasPrefix(s.BaseURL, "https://") {
		return ConfigValidationError("base_url", "base URL must start with http:// or https://")
	}
	if !strings.Contains(s.BaseURL, "api.github.com") &&
		!strings.Contains(s.BaseURL, "github.com/api") &&
		!strings.Contains(s.BaseURL, "/api/v3") {
		return ConfigValidationError("base_url",
			"base URL should be a GitHub API URL (e.g. https://api.github.com or https://your-enterprise.com/api/v3)")
	}
	if _, err := url.Parse(s.BaseURL); err != nil {
		return ConfigValidationError("base_url", "base URL is not a valid URL")
	}
	if s.Token == "" {
		return ConfigValidationError("token", "token cannot be empty")
	}
	if len(s.Token) < 20 {
		return ConfigValidationError("token", "token must be at least 20 characters long")
	}
	if !hasTokenPrefix(s.Token) {
		return ConfigValidationError("token",
			"token should start with one of "+strings.Join(tokenPrefixes, ", "))
	}
	if s.PerPage < 1 || s.PerPage > 100 {
		return ConfigValidationError("per_page", "per_page must be between 1 and 100")
	}
	if s.Timeout <= 0 {
		return ConfigValidationError("timeout", "timeout must be greater than zero")
	}
	if s.MaxRetries < 0 || s.MaxRetries > 10 {
		return ConfigValidationError("max_retries", "max_retries must be between 0 and 10")
	}
	return nil
}

// Configured reports whether the settings are usable for remote calls.
func (s Settings) Configured() bool { return s.Validate() == nil }

func hasTokenPrefix(token string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(token, p) {
			return true
		}
	}
	return false
}
