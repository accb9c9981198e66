package resolver

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/brand"
	"github.com/JakeFAU/brandscan/internal/extract"
	"github.com/JakeFAU/brandscan/internal/metrics"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultUserAgent    = "brandscan/1.0 (+https://github.com/JakeFAU/brandscan)"
	DefaultMaxBodyBytes = 10 * 1024 * 1024
)

// Config controls the HTTP resolver.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// HTTPResolver fetches a host's landing page with colly and scans it for
// logo and favicon candidates.
type HTTPResolver struct {
	cfg       Config
	collector *colly.Collector
	logger    *zap.Logger
}

// New builds an HTTPResolver with its own transport.
func New(cfg Config, logger *zap.Logger) *HTTPResolver {
	cfg = cfg.withDefaults()
	return newWithTransport(cfg, newHTTPTransport(cfg), logger)
}

// NewFactory returns a Factory whose resolvers share one connection pool but
// nothing else.
func NewFactory(cfg Config, logger *zap.Logger) Factory {
	cfg = cfg.withDefaults()
	transport := newHTTPTransport(cfg)
	return func() Resolver {
		return newWithTransport(cfg, transport, logger)
	}
}

func newWithTransport(cfg Config, transport http.RoundTripper, logger *zap.Logger) *HTTPResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.MaxBodySize(cfg.MaxBodyBytes),
		colly.Async(false),
	)
	c.AllowURLRevisit = true
	c.ParseHTTPErrorResponse = true
	c.WithTransport(transport)
	c.SetRequestTimeout(cfg.Timeout)

	return &HTTPResolver{
		cfg:       cfg,
		collector: c,
		logger:    logger,
	}
}

func newHTTPTransport(cfg Config) *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          128,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   cfg.Timeout,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	}
}

// Resolve implements Resolver. Degraded and empty lookups are logged at warn level.
func (r *HTTPResolver) Resolve(ctx context.Context, host string) brand.Site {
	out := r.Lookup(ctx, host)
	switch out.Status {
	case StatusDegraded:
		r.logger.Warn("resolve degraded",
			zap.String("host", host),
			zap.String("domain", out.Site.Domain),
			zap.Error(out.Err),
		)
	case StatusEmpty:
		r.logger.Warn("no brand metadata found",
			zap.String("host", host),
			zap.String("domain", out.Site.Domain),
		)
	default:
		r.logger.Debug("resolved",
			zap.String("domain", out.Site.Domain),
			zap.String("logo", out.Site.LogoURL()),
			zap.String("favicon", out.Site.FaviconURL()),
		)
	}
	return out.Site
}

// Lookup resolves host and reports how it went.
func (r *HTTPResolver) Lookup(ctx context.Context, host string) Outcome {
	start := time.Now()
	out := r.lookup(ctx, host)
	metrics.ObserveResolve(out.Status.String(), time.Since(start))
	return out
}

func (r *HTTPResolver) lookup(ctx context.Context, host string) Outcome {
	target, err := Normalize(host)
	if err != nil {
		return degraded(brand.Empty(host), err)
	}

	body, err := r.fetch(ctx, target)
	if err != nil {
		return degraded(brand.Empty(target), err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return degraded(brand.Empty(target), fmt.Errorf("parse %s: %w", target, err))
	}
	return fetched(Extract(target, doc))
}

// Extract builds the record for domain from an already parsed document. The
// logo prefers tagged <img> elements and falls back to og:image.
func Extract(domain string, doc *goquery.Document) brand.Site {
	return brand.Site{
		Domain:  domain,
		Logo:    extract.First(extract.Choice(doc, extract.ImgTag, extract.OGImage)),
		Favicon: extract.First(extract.Favicon(doc)),
	}
}

func (r *HTTPResolver) fetch(ctx context.Context, target string) ([]byte, error) {
	collector := r.collector.Clone()

	var (
		body     []byte
		received bool
		fetchErr error
	)
	collector.OnResponse(func(resp *colly.Response) {
		body = append([]byte(nil), resp.Body...)
		received = true
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(target)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch %s canceled: %w", target, ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", target, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", target, fetchErr)
		}
		if !received {
			return nil, fmt.Errorf("fetch %s: no response", target)
		}
		return body, nil
	}
}
