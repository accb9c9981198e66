package brand

import "fmt"

// nullField is rendered in place of a missing logo or favicon.
const nullField = "null"

// Logo is a candidate image discovered in a site's markup.
type Logo struct {
	URL    string
	MIME   string
	Width  *uint64
	Height *uint64
}

// NewLogo returns a Logo with only its URL set.
func NewLogo(url string) *Logo {
	return &Logo{URL: url}
}

// Site is the metadata record for one host. A nil Logo or Favicon means
// nothing was discovered, either because the site has none or because the
// lookup degraded.
type Site struct {
	Domain  string
	Logo    *Logo
	Favicon *Logo
}

// Empty returns a record for domain with no logo and no favicon.
func Empty(domain string) Site {
	return Site{Domain: domain}
}

// LogoURL returns the logo URL or "" when absent.
func (s Site) LogoURL() string {
	if s.Logo == nil {
		return ""
	}
	return s.Logo.URL
}

// FaviconURL returns the favicon URL or "" when absent.
func (s Site) FaviconURL() string {
	if s.Favicon == nil {
		return ""
	}
	return s.Favicon.URL
}

// CSV renders the record as "domain, logo, favicon" with "null" for missing fields.
func (s Site) CSV() string {
	return fmt.Sprintf("%s, %s, %s", s.Domain, orNull(s.Logo), orNull(s.Favicon))
}

// String implements fmt.Stringer.
func (s Site) String() string {
	return s.CSV()
}

func orNull(l *Logo) string {
	if l == nil {
		return nullField
	}
	return l.URL
}
