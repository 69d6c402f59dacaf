package handler

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// PDFProxyHandler streams hosted PDFs through the API so the browser
// renders them inline instead of downloading from the CDN origin.
type PDFProxyHandler struct {
	HTTP *http.Client
	// AllowedHosts restricts which origins may be proxied. Empty means
	// cloudinary only.
	AllowedHosts []string
}

func NewPDFProxyHandler() *PDFProxyHandler {
	return &PDFProxyHandler{
		HTTP:         &http.Client{Timeout: 30 * time.Second},
		AllowedHosts: []string{"res.cloudinary.com"},
	}
}

// Proxy fetches ?url= and streams it back as inline application/pdf
// with an hour of shared caching.
func (h *PDFProxyHandler) Proxy(c echo.Context) error {
	raw := c.QueryParam("url")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url required"})
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid url"})
	}
	if !h.hostAllowed(u.Host) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "host not allowed"})
	}

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, u.String(), nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build request failed"})
	}
	resp, err := h.HTTP.Do(req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "fetch pdf failed"})
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upstream returned " + resp.Status})
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().Header().Set("Content-Disposition", "inline")
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}

func (h *PDFProxyHandler) hostAllowed(host string) bool {
	for _, allowed := range h.AllowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
