package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func proxyRequest(t *testing.T, h *PDFProxyHandler, target string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Proxy(c); err != nil {
		t.Fatalf("Proxy: %v", err)
	}
	return rec
}

func TestPDFProxyRejectsBadInput(t *testing.T) {
	t.Parallel()

	h := NewPDFProxyHandler()
	tests := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{"missing url", "/v1/pdf-proxy", "url required"},
		{"http scheme", "/v1/pdf-proxy?url=" + url.QueryEscape("http://res.cloudinary.com/x.pdf"), "invalid url"},
		{"unknown host", "/v1/pdf-proxy?url=" + url.QueryEscape("https://evil.example.com/x.pdf"), "host not allowed"},
		{"lookalike host", "/v1/pdf-proxy?url=" + url.QueryEscape("https://res.cloudinary.com.evil.example/x.pdf"), "host not allowed"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := proxyRequest(t, h, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Fatalf("body %q does not mention %q", rec.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestPDFProxyAllowsSubdomains(t *testing.T) {
	t.Parallel()

	h := NewPDFProxyHandler()
	if !h.hostAllowed("res.cloudinary.com") {
		t.Fatal("exact host rejected")
	}
	if !h.hostAllowed("eu.res.cloudinary.com") {
		t.Fatal("subdomain rejected")
	}
	if h.hostAllowed("notres.cloudinary.com.evil.example") {
		t.Fatal("lookalike accepted")
	}
}

func TestPDFProxyStreams(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fake body"))
	}))
	defer upstream.Close()

	u, err := url.Parse(upstream.URL)
	if err != nil {
		t.Fatalf("parse upstream url: %v", err)
	}
	h := &PDFProxyHandler{
		HTTP:         upstream.Client(),
		AllowedHosts: []string{u.Host},
	}

	rec := proxyRequest(t, h, "/v1/pdf-proxy?url="+url.QueryEscape(upstream.URL+"/doc.pdf"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Fatalf("content-type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "inline" {
		t.Fatalf("content-disposition = %q", cd)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Fatalf("cache-control = %q", cc)
	}
	if rec.Body.String() != "%PDF-1.4 fake body" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestPDFProxyUpstreamError(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	u, err := url.Parse(upstream.URL)
	if err != nil {
		t.Fatalf("parse upstream url: %v", err)
	}
	h := &PDFProxyHandler{
		HTTP:         upstream.Client(),
		AllowedHosts: []string{u.Host},
	}

	rec := proxyRequest(t, h, "/v1/pdf-proxy?url="+url.QueryEscape(upstream.URL+"/missing.pdf"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
