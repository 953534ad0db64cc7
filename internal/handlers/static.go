package handlers

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fishing-backend/internal/middleware"
	"fishing-backend/internal/models"
)

type bootstrapper interface {
	Bootstrap(ctx context.Context, token string) (*models.Fisher, string, error)
}

type cookieSetter interface {
	SetCookie(w http.ResponseWriter, token string)
}

// StaticHandler serves the built single-page frontend. Unknown paths fall
// back to index.html so client-side routes resolve.
type StaticHandler struct {
	dir       string
	identity  bootstrapper
	cookies   cookieSetter
	fileServe http.Handler
}

func NewStaticHandler(dir string, identity bootstrapper, cookies cookieSetter) *StaticHandler {
	return &StaticHandler{
		dir:       dir,
		identity:  identity,
		cookies:   cookies,
		fileServe: http.FileServer(http.Dir(dir)),
	}
}

// Index handles GET /: it makes sure the caller has a fisher cookie and
// serves index.html.
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(middleware.CookieName); err == nil {
		token = c.Value
	}

	_, newToken, err := h.identity.Bootstrap(r.Context(), token)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if newToken != "" {
		h.cookies.SetCookie(w, newToken)
	}
	h.serveIndex(w, r)
}

func (h *StaticHandler) Serve(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	if clean == "/" {
		h.serveIndex(w, r)
		return
	}

	full := filepath.Join(h.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		h.fileServe.ServeHTTP(w, r)
		return
	}
	h.serveIndex(w, r)
}

func (h *StaticHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Frontend build not found", r))
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}
