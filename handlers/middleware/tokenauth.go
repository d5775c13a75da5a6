package middleware

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/types"
)

type contextKey string

const (
	contextKeyTokenInfo contextKey = "token_info"
)

// TokenAuthMiddleware handles JWT token authentication for API requests
type TokenAuthMiddleware struct {
	config *types.Config
	logger logrus.FieldLogger
}

// NewTokenAuthMiddleware creates a new token authentication middleware instance
func NewTokenAuthMiddleware(config *types.Config, logger logrus.FieldLogger) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{
		config: config,
		logger: logger,
	}
}

// ParseAPIToken validates a JWT token against the secret and returns the token information
func ParseAPIToken(tokenString string, secret string) (*types.APITokenInfo, error) {
	if secret == "" {
		return nil, fmt.Errorf("authentication secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &types.APITokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(*types.APITokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims.Info(), nil
}

// validateDomainPatterns checks if the request domain matches any of the allowed patterns
func validateDomainPatterns(requestDomain string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, requestDomain); matched {
			return true
		}
		if pattern == requestDomain {
			return true
		}
	}

	return false
}

func parseBearerToken(authHeader string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Middleware processes JWT authentication and adds token info to request context
func (m *TokenAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenInfo *types.APITokenInfo
		clientIP := GetClientIP(r, m.config.RateLimit.ProxyCount)

		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			tokenString, ok := parseBearerToken(authHeader)
			if !ok {
				APIErrorResponse(w, http.StatusUnauthorized, "ERROR: invalid authorization header format")
				return
			}

			var err error
			tokenInfo, err = ParseAPIToken(tokenString, m.config.Api.AuthSecret)
			if err != nil {
				m.logger.WithError(err).WithField("client_ip", clientIP).Warn("API authentication failed")
				APIErrorResponse(w, http.StatusUnauthorized, "ERROR: invalid authentication token")
				return
			}

			if !validateDomainPatterns(r.Host, tokenInfo.DomainPatterns) {
				m.logger.WithFields(logrus.Fields{
					"client_ip":        clientIP,
					"token_name":       tokenInfo.Name,
					"request_domain":   r.Host,
					"allowed_patterns": tokenInfo.DomainPatterns,
				}).Warn("API request rejected: domain not allowed for token")
				APIErrorResponse(w, http.StatusForbidden, "ERROR: token not valid for this domain")
				return
			}

			m.logger.WithFields(logrus.Fields{
				"client_ip":  clientIP,
				"token_name": tokenInfo.Name,
			}).Debug("API request with valid token")
		}

		if tokenInfo == nil && m.config.Api.RequireAuth && r.Method != http.MethodOptions {
			m.logger.WithField("client_ip", clientIP).Warn("API request rejected: authentication required")
			APIErrorResponse(w, http.StatusUnauthorized, "ERROR: authentication required")
			return
		}

		if tokenInfo != nil {
			ctx := context.WithValue(r.Context(), contextKeyTokenInfo, tokenInfo)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// GetTokenInfo extracts token information from request context
func GetTokenInfo(r *http.Request) *types.APITokenInfo {
	if tokenInfo, ok := r.Context().Value(contextKeyTokenInfo).(*types.APITokenInfo); ok {
		return tokenInfo
	}
	return nil
}
