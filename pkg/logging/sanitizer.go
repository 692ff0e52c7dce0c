package logging

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// MaxValueLogLength is the maximum length of a free-text value to log.
	MaxValueLogLength = 200
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Plane API keys are issued with a plane_api_ prefix.
	planeKeyPattern = regexp.MustCompile(`plane_api_[A-Za-z0-9]+`)

	// Header dumps such as "X-API-Key: abc" or "x-api-key=abc".
	apiKeyHeaderPattern = regexp.MustCompile(`(?i)(x-api-key|api[_-]?key)(["']?\s*[:=]\s*["']?)[^\s"',;&]+`)

	// Credentials embedded in URLs (user:pass@host).
	userInfoPattern = regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@`)
)

// sensitiveKeys are substrings of argument names whose values are never logged.
var sensitiveKeys = []string{"password", "secret", "token", "api_key", "apikey", "credential"}

// SanitizeError sanitizes error messages that might contain an API key.
// Use this before logging any error coming back from the Plane client.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString removes API keys and URL credentials from s.
func SanitizeString(s string) string {
	if s == "" {
		return ""
	}

	sanitized := planeKeyPattern.ReplaceAllString(s, RedactedText)
	sanitized = apiKeyHeaderPattern.ReplaceAllString(sanitized, "${1}${2}"+RedactedText)
	sanitized = userInfoPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@")

	return sanitized
}

// SanitizeURL drops user info and any api_key style query parameter from a URL.
func SanitizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return SanitizeString(rawURL)
	}

	u.User = nil
	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if IsSensitiveKey(key) {
				q.Set(key, RedactedText)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// RedactSecret replaces every occurrence of secret in s.
func RedactSecret(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, RedactedText)
}

// IsSensitiveKey reports whether an argument or header name holds a secret.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if lower == "key" || strings.HasSuffix(lower, "-key") || strings.HasSuffix(lower, "_key") {
		return true
	}
	for _, keyword := range sensitiveKeys {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
