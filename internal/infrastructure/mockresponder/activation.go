package mockresponder

import (
	"net/url"
	"strings"
)

// DefaultStaticHosts are hosting domains that serve files only.
var DefaultStaticHosts = []string{"netlify"}

// ShouldActivate reports whether calls to baseURL must be answered locally:
// no base URL at all, or a host on a static-hosting domain.
func ShouldActivate(baseURL string, staticHosts []string) bool {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return true
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	for _, static := range staticHosts {
		static = strings.ToLower(strings.TrimSpace(static))
		if static != "" && strings.Contains(host, static) {
			return true
		}
	}
	return false
}
