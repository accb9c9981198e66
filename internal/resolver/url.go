package resolver

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize turns a raw host into an absolute http(s) URL. The raw string is
// tried as-is first and then with an "https://" prefix. Input that already
// names another scheme is malformed and is not retried. An empty path
// becomes "/" and fragments are dropped.
func Normalize(raw string) (string, error) {
	if u, ok := canonicalize(raw); ok {
		return u, nil
	}
	if !hasForeignScheme(raw) {
		if u, ok := canonicalize("https://" + raw); ok {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrMalformedHost, raw)
}

func canonicalize(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Hostname() == "" {
		return "", false
	}
	parsed.Fragment = ""
	if parsed.Path == "" {
		parsed.Path = "/"
	}
	return parsed.String(), true
}

// hasForeignScheme reports whether raw carries a scheme of its own, such as
// "ftp://host" or "mailto:user@host". A bare "host:port" also parses with a
// scheme ("host") and an opaque port, so that shape is not counted.
func hasForeignScheme(raw string) bool {
	if strings.Contains(raw, "://") {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return false
	}
	port, _, _ := strings.Cut(parsed.Opaque, "/")
	return !isPort(port)
}

func isPort(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
