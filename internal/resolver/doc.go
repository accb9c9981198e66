// Package resolver turns a raw host string into a brand.Site.
//
// Resolve is total: malformed hosts, network failures, timeouts and
// unparseable pages all degrade to a record with no logo and no favicon, and
// the degrade is logged rather than returned. Lookup exposes the same work as
// a tagged Outcome so the degrade path can be inspected directly.
package resolver
