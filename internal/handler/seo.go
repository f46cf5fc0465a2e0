package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

type SEOHandler struct {
	robots []byte
}

// NewSEOHandler keeps crawlers on the public pages; everything under /app and /auth is private.
func NewSEOHandler(baseURL string) *SEOHandler {
	return &SEOHandler{
		robots: []byte(fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /app/\nDisallow: /auth/\n\nHost: %s\n", strings.TrimSuffix(baseURL, "/"))),
	}
}

func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := w.Write(h.robots)
	if err != nil {
		slog.Error("failed to write robots.txt", "error", err)
	}
}
