// Package middleware provides HTTP middleware for the catalogue API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	svcerrors "github.com/R3E-Network/asset_catalog/internal/errors"
	internalhttputil "github.com/R3E-Network/asset_catalog/internal/httputil"
	"github.com/R3E-Network/asset_catalog/internal/logging"
	"github.com/R3E-Network/asset_catalog/pkg/logger"
)

// Claims represents JWT claims issued by the account service.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies HS256 bearer tokens.
type AuthMiddleware struct {
	secret []byte
	issuer string
	logger *logger.Logger
}

// NewAuthMiddleware creates a new authentication middleware. An empty issuer
// accepts tokens from any issuer.
func NewAuthMiddleware(secret []byte, issuer string, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &AuthMiddleware{
		secret: secret,
		issuer: issuer,
		logger: log,
	}
}

// Handler returns the middleware handler
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondError(w, r, svcerrors.Unauthorized("Missing Authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			m.respondError(w, r, svcerrors.Unauthorized("Invalid Authorization header format"))
			return
		}

		claims, err := m.validateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			m.respondError(w, r, err)
			return
		}

		ctx := logging.WithUserID(r.Context(), claims.UserID)
		logging.Entry(ctx, m.logger).Debug("Authentication successful")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validateToken validates a JWT token and returns claims
func (m *AuthMiddleware) validateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, svcerrors.InvalidToken(err)
	}
	if !token.Valid {
		return nil, svcerrors.InvalidToken(nil)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, svcerrors.InvalidToken(nil).WithDetails("reason", "invalid claims type")
	}
	if strings.TrimSpace(claims.UserID) == "" {
		claims.UserID = strings.TrimSpace(claims.Subject)
	}
	if claims.UserID == "" {
		return nil, svcerrors.InvalidToken(nil).WithDetails("reason", "missing user id")
	}
	return claims, nil
}

// respondError sends an error response
func (m *AuthMiddleware) respondError(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := svcerrors.GetServiceError(err)
	if serviceErr == nil {
		serviceErr = svcerrors.Internal("Authentication failed", err)
	}

	internalhttputil.WriteErrorResponse(w, r, serviceErr.HTTPStatus, string(serviceErr.Code), serviceErr.Message, serviceErr.Details)

	logging.Entry(r.Context(), m.logger).WithError(err).WithFields(map[string]interface{}{
		"path":   r.URL.Path,
		"method": r.Method,
		"status": serviceErr.HTTPStatus,
	}).Warn("Authentication failed")
}

// GetUserID extracts the authenticated user id from context
func GetUserID(ctx context.Context) string {
	return logging.GetUserID(ctx)
}

// RequireUserID middleware ensures user ID is present in context
func RequireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			internalhttputil.Unauthorized(w, r, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
