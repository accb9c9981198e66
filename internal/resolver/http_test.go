package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const brandedPage = `<!doctype html>
<html>
<head>
  <link rel="stylesheet" href="/site.css">
  <link rel="shortcut icon" href="/favicon.ico">
  <meta property="og:image" content="https://cdn.example.com/share.png">
</head>
<body>
  <header class="site-header">
    <a href="/"><img src="/static/logo.svg" alt="Example"></a>
  </header>
  <img src="/hero.jpg" alt="hero">
</body>
</html>`

const ogOnlyPage = `<html><head>
  <meta property="og:image" content="https://cdn.example.com/og.png">
  <meta property="og:image:width" content="1200">
  <meta property="og:image:height" content="630">
</head><body><p>nothing here</p></body></html>`

const plainPage = `<html><body><p>hello</p></body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/branded", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(brandedPage))
	})
	mux.HandleFunc("/og", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(ogOnlyPage))
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(plainPage))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<html><body><img id="brand-mark" src="/404-logo.png"></body></html>`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(brandedPage))
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><link rel="icon" href="/` + r.UserAgent() + `"></head></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestLookupResolvesLogoAndFavicon(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	out := New(Config{}, nil).Lookup(context.Background(), srv.URL+"/branded")
	require.Equal(t, StatusResolved, out.Status)
	require.NoError(t, out.Err)
	require.Equal(t, srv.URL+"/branded", out.Site.Domain)
	require.Equal(t, "/static/logo.svg", out.Site.LogoURL())
	require.Equal(t, "/favicon.ico", out.Site.FaviconURL())
}

func TestLookupFallsBackToOGImage(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	out := New(Config{}, nil).Lookup(context.Background(), srv.URL+"/og")
	require.Equal(t, StatusResolved, out.Status)
	require.Equal(t, "https://cdn.example.com/og.png", out.Site.LogoURL())
	require.NotNil(t, out.Site.Logo.Width)
	require.EqualValues(t, 1200, *out.Site.Logo.Width)
	require.Nil(t, out.Site.Favicon)
}

func TestLookupParsesErrorPages(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	out := New(Config{}, nil).Lookup(context.Background(), srv.URL+"/missing")
	require.Equal(t, StatusResolved, out.Status)
	require.Equal(t, "/404-logo.png", out.Site.LogoURL())
}

func TestLookupSendsUserAgent(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	out := New(Config{UserAgent: "brandscan-test"}, nil).Lookup(context.Background(), srv.URL+"/ua")
	require.Equal(t, "/brandscan-test", out.Site.FaviconURL())
}

func TestResolveWarnsWhenNothingMatches(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	logger, logs := observed()

	site := New(Config{}, logger).Resolve(context.Background(), srv.URL+"/plain")
	require.Equal(t, srv.URL+"/plain, null, null", site.CSV())
	require.Equal(t, 1, logs.FilterMessage("no brand metadata found").Len())
}

func TestResolveDegradesMalformedHost(t *testing.T) {
	t.Parallel()
	logger, logs := observed()

	site := New(Config{}, logger).Resolve(context.Background(), "not a domain")
	require.Equal(t, "not a domain, null, null", site.CSV())

	entries := logs.FilterMessage("resolve degraded").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "not a domain", entries[0].ContextMap()["host"])
	require.Contains(t, entries[0].ContextMap()["error"], "malformed host")
}

func TestResolveDegradesUnreachableHost(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()
	logger, logs := observed()

	site := New(Config{Timeout: time.Second}, logger).Resolve(context.Background(), target)
	require.Equal(t, target+"/", site.Domain)
	require.Nil(t, site.Logo)
	require.Nil(t, site.Favicon)
	require.Equal(t, 1, logs.FilterMessage("resolve degraded").Len())
}

func TestLookupTimesOut(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	out := New(Config{Timeout: 50 * time.Millisecond}, nil).Lookup(context.Background(), srv.URL+"/slow")
	require.True(t, out.Degraded())
	require.Error(t, out.Err)
}

func TestLookupHonoursCanceledContext(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := New(Config{Timeout: time.Second}, nil).Lookup(ctx, srv.URL+"/slow")
	require.True(t, out.Degraded())
	require.ErrorIs(t, out.Err, context.Canceled)
}

func TestFactoryResolversAreIndependent(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	factory := NewFactory(Config{}, nil)

	a, b := factory(), factory()
	require.NotSame(t, a, b)
	for i := 0; i < 3; i++ {
		require.Equal(t, "/static/logo.svg", a.Resolve(context.Background(), srv.URL+"/branded").LogoURL())
		require.Equal(t, "/favicon.ico", b.Resolve(context.Background(), srv.URL+"/branded").FaviconURL())
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(brandedPage))
	require.NoError(t, err)
	site := Extract("https://example.com/", doc)
	require.Equal(t, "https://example.com/, /static/logo.svg, /favicon.ico", site.CSV())
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "resolved", StatusResolved.String())
	require.Equal(t, "empty", StatusEmpty.String())
	require.Equal(t, "degraded", StatusDegraded.String())
	require.Equal(t, "unknown", Status(42).String())
}

func TestResolveKeepsRawInputForOtherSchemes(t *testing.T) {
	t.Parallel()
	logger, logs := observed()

	r := New(Config{}, logger)
	for _, raw := range []string{"ftp://example.com", "mailto:a@b.com"} {
		require.Equal(t, raw+", null, null", r.Resolve(context.Background(), raw).CSV())
	}
	require.Equal(t, 2, logs.FilterMessage("resolve degraded").Len())
}
