package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/ethpandaops/txdecoder/types"
)

// CorsMiddleware answers preflight requests and sets the allow headers for
// origins listed in the config or in the authenticated token.
func CorsMiddleware(config *types.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				allowedOrigins := config.Api.CorsOrigins
				if tokenInfo := GetTokenInfo(r); tokenInfo != nil && len(tokenInfo.CorsOrigins) > 0 {
					allowedOrigins = tokenInfo.CorsOrigins
				}

				for _, allowed := range allowedOrigins {
					if matchOrigin(allowed, origin) {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
						w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
						w.Header().Add("Vary", "Origin")
						break
					}
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchOrigin(pattern, origin string) bool {
	if pattern == "*" {
		return true
	}

	// Escape special regex chars except *
	pattern = regexp.QuoteMeta(pattern)
	pattern = strings.ReplaceAll(pattern, "\\*", ".*")
	pattern = "^" + pattern + "$"

	matched, err := regexp.MatchString(pattern, origin)
	if err != nil {
		return false
	}
	return matched
}
