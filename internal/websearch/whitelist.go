package websearch

import (
	"net/url"
	"strings"
)

// Whitelist decides which hosts the web search tool may surface.
// Anything outside it is discarded, never shown to the planner or the
// model. This is the security boundary for web evidence.
type Whitelist struct {
	hosts    map[string]bool
	suffixes []string
}

// NewWhitelist builds a whitelist from exact hosts and allowed host
// suffixes (e.g. "gov.in" admits every *.gov.in subdomain)
func NewWhitelist(hosts []string, suffixes []string) *Whitelist {
	w := &Whitelist{
		hosts:    make(map[string]bool, len(hosts)),
		suffixes: make([]string, 0, len(suffixes)),
	}
	for _, h := range hosts {
		w.hosts[normalizeHost(h)] = true
	}
	for _, s := range suffixes {
		w.suffixes = append(w.suffixes, normalizeHost(s))
	}
	return w
}

// Allows reports whether the URL's host is whitelisted
func (w *Whitelist) Allows(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return w.AllowsHost(parsed.Host)
}

// AllowsHost reports whether the bare host is whitelisted
func (w *Whitelist) AllowsHost(host string) bool {
	host = normalizeHost(host)
	if host == "" {
		return false
	}

	if w.hosts[host] {
		return true
	}

	// foo.indiankanoon.org matches indiankanoon.org
	for h := range w.hosts {
		if strings.HasSuffix(host, "."+h) {
			return true
		}
	}

	for _, suffix := range w.suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}

	return false
}

// Domain extracts the normalized host from a URL
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return normalizeHost(parsed.Host)
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")
	return host
}
