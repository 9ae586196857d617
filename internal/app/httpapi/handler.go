package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	app "github.com/R3E-Network/asset_catalog/internal/app"
	"github.com/R3E-Network/asset_catalog/internal/app/metrics"
	"github.com/R3E-Network/asset_catalog/internal/app/uploads"
	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	internalhttputil "github.com/R3E-Network/asset_catalog/internal/httputil"
	"github.com/R3E-Network/asset_catalog/internal/logging"
	"github.com/R3E-Network/asset_catalog/internal/middleware"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// Options configures the HTTP surface. Auth is required; the other
// middleware is optional.
type Options struct {
	Auth           *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	CORS           *middleware.CORSMiddleware
	Logger         *logger.Logger
	UploadDir      string
	MaxUploadBytes int64
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app      *app.Application
	log      *logger.Logger
	maxBytes int64
}

// NewHandler returns the catalogue REST API wrapped in metrics, request
// logging and CORS.
func NewHandler(application *app.Application, opts Options) (http.Handler, error) {
	if application == nil {
		return nil, fmt.Errorf("application is required")
	}
	if opts.Auth == nil {
		return nil, fmt.Errorf("auth middleware is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefault("httpapi")
	}

	h := &handler{app: application, log: opts.Logger, maxBytes: opts.MaxUploadBytes}

	public := func(fn http.HandlerFunc) http.Handler {
		if opts.RateLimiter == nil {
			return fn
		}
		return opts.RateLimiter.Handler(fn)
	}
	private := func(fn http.HandlerFunc) http.Handler {
		return opts.Auth.Handler(middleware.RequireUserID(public(fn)))
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		internalhttputil.WriteErrorResponse(w, r, http.StatusNotFound, string(svcerrors.CodeNotFound), "route not found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		internalhttputil.WriteErrorResponse(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Handle("/api/assets", public(h.searchAssets)).Methods(http.MethodGet)
	r.Handle("/api/assets", private(h.createAsset)).Methods(http.MethodPost)
	r.Handle("/api/assets/home-summary", public(h.homeSummary)).Methods(http.MethodGet)
	r.Handle("/api/assets/mine", private(h.myAssets)).Methods(http.MethodGet)
	r.Handle("/api/assets/dashboard", private(h.dashboard)).Methods(http.MethodGet)
	r.Handle("/api/assets/{id}", private(h.deleteAsset)).Methods(http.MethodDelete)

	if dir := strings.TrimSpace(opts.UploadDir); dir != "" {
		files := http.StripPrefix(uploads.URLPrefix, http.FileServer(http.Dir(dir)))
		r.PathPrefix(uploads.URLPrefix).Handler(noDirectoryListing(files)).Methods(http.MethodGet, http.MethodHead)
	}

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	var out http.Handler = r
	if opts.CORS != nil {
		out = opts.CORS.Handler(out)
	}
	out = middleware.LoggingMiddleware(opts.Logger)(out)
	return metrics.InstrumentHandler(out), nil
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func noDirectoryListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			internalhttputil.WriteErrorResponse(w, r, http.StatusNotFound, string(svcerrors.CodeNotFound), "file not found", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return bodyError(err, "invalid JSON body")
	}
	return nil
}

// bodyError turns a request body failure into a validation error.
func bodyError(err error, context string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return svcerrors.Validation("request body exceeds %d bytes", tooLarge.Limit)
	}
	return svcerrors.Validation("%s: %v", context, err)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	internalhttputil.WriteJSON(w, status, data)
}

// writeError answers with the error's status. Store and internal failures
// are logged with their cause, which never reaches the client.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := svcerrors.CodeOf(err)
	if code == svcerrors.CodeInternal || svcerrors.IsStoreUnavailable(err) {
		logging.Entry(r.Context(), h.log).WithError(err).
			WithField("path", r.URL.Path).
			WithField("code", code).
			Error("request failed")
	}
	internalhttputil.WriteServiceError(w, r, err)
}
