package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	internalhttputil "github.com/R3E-Network/asset_catalog/internal/httputil"
	"github.com/R3E-Network/asset_catalog/internal/logging"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// maxTrackedKeys caps the limiter table before Cleanup resets it.
const maxTrackedKeys = 10000

// CleanupInterval is how often a started limiter checks its table size.
var CleanupInterval = time.Minute

// RateLimiter provides rate limiting functionality
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   *logger.Logger
	stop     chan struct{}
}

// NewRateLimiter creates a new rate limiter. A non-positive rate disables
// limiting.
func NewRateLimiter(requestsPerSecond int, burst int, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.NewDefault("ratelimit")
	}
	if burst <= 0 {
		burst = requestsPerSecond
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   log,
	}
}

// getLimiter returns a rate limiter for the given key (e.g., user ID or IP)
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}

	return limiter
}

// Handler returns the rate limiting middleware handler
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rate <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		// Use user ID if authenticated, otherwise use IP address
		key := GetUserID(r.Context())
		if key == "" {
			key = r.RemoteAddr
		}

		if !rl.getLimiter(key).Allow() {
			logging.Entry(r.Context(), rl.logger).WithFields(map[string]interface{}{
				"key":    key,
				"path":   r.URL.Path,
				"method": r.Method,
			}).Warn("rate limit exceeded")

			w.Header().Set("Retry-After", "1")
			internalhttputil.WriteServiceError(w, r, svcerrors.RateLimitExceeded(int(rl.rate), "1s"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Cleanup drops every limiter once the table grows past maxTrackedKeys.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.limiters) > maxTrackedKeys {
		rl.limiters = make(map[string]*rate.Limiter)
	}
}

// Name identifies the cleanup loop to the lifecycle manager.
func (rl *RateLimiter) Name() string { return "ratelimit-cleanup" }

// Start runs Cleanup every CleanupInterval until Stop.
func (rl *RateLimiter) Start(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.stop != nil {
		return nil
	}
	stop := make(chan struct{})
	rl.stop = stop

	ticker := time.NewTicker(CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
	return nil
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.stop != nil {
		close(rl.stop)
		rl.stop = nil
	}
	return nil
}
