package resolver

import (
	"context"
	"errors"

	"github.com/JakeFAU/brandscan/internal/brand"
)

// Resolver produces the metadata record for one host. Implementations must
// never fail the caller.
type Resolver interface {
	Resolve(ctx context.Context, host string) brand.Site
}

// Factory creates a fresh Resolver. Drivers call it once per item.
type Factory func() Resolver

// Func adapts a plain function to the Resolver interface.
type Func func(ctx context.Context, host string) brand.Site

// Resolve implements Resolver.
func (f Func) Resolve(ctx context.Context, host string) brand.Site {
	return f(ctx, host)
}

// Status tags how a lookup ended.
type Status int

// Lookup statuses.
const (
	// StatusResolved means the page was fetched and at least one field was found.
	StatusResolved Status = iota
	// StatusEmpty means the page was fetched but nothing matched.
	StatusEmpty
	// StatusDegraded means the host was malformed or the fetch/parse failed.
	StatusDegraded
)

// String returns the metric label for s.
func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusEmpty:
		return "empty"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// ErrMalformedHost is the cause of a degrade when the host cannot be turned into a URL.
var ErrMalformedHost = errors.New("malformed host")

// Outcome is the tagged result of a lookup. Site is always usable.
type Outcome struct {
	Site   brand.Site
	Status Status
	Err    error
}

// Degraded reports whether the lookup failed and Site is a placeholder.
func (o Outcome) Degraded() bool {
	return o.Status == StatusDegraded
}

func degraded(site brand.Site, err error) Outcome {
	return Outcome{Site: site, Status: StatusDegraded, Err: err}
}

func fetched(site brand.Site) Outcome {
	if site.Logo == nil && site.Favicon == nil {
		return Outcome{Site: site, Status: StatusEmpty}
	}
	return Outcome{Site: site, Status: StatusResolved}
}
