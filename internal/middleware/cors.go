package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, " + TraceHeader
	corsMaxAge       = "3600"
)

// CORSMiddleware answers browser origin checks for the web client. An entry
// of "*" admits every origin, an entry starting with "." admits any origin
// ending in it, and anything else must match exactly.
type CORSMiddleware struct {
	exact    map[string]struct{}
	suffixes []string
	allowAll bool
}

func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{exact: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "":
		case origin == "*":
			m.allowAll = true
		case strings.HasPrefix(origin, "."):
			m.suffixes = append(m.suffixes, origin)
		default:
			m.exact[origin] = struct{}{}
		}
	}
	return m
}

// Handler sets the Access-Control headers for admitted origins. OPTIONS
// requests stop here with 204.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && m.admits(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", TraceHeader)
			h.Set("Access-Control-Max-Age", corsMaxAge)
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *CORSMiddleware) admits(origin string) bool {
	if m.allowAll {
		return true
	}
	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, suffix := range m.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}
