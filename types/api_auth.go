package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// APITokenClaims are the JWT claims of an api token issued by txdecoder-utils.
type APITokenClaims struct {
	Name           string   `json:"name"`
	RateLimit      uint     `json:"rate_limit,omitempty"`      // decode calls per minute, 0 = unlimited
	CorsOrigins    []string `json:"cors_origins,omitempty"`    // empty = global api.corsOrigins
	DomainPatterns []string `json:"domain_patterns,omitempty"` // decoder hosts the token is valid for, empty = any
	jwt.RegisteredClaims
}

// Info flattens the claims into the per request token info.
func (c *APITokenClaims) Info() *APITokenInfo {
	info := &APITokenInfo{
		Name:           c.Name,
		RateLimit:      c.RateLimit,
		CorsOrigins:    c.CorsOrigins,
		DomainPatterns: c.DomainPatterns,
	}
	if c.IssuedAt != nil {
		info.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		expiresAt := c.ExpiresAt.Time
		info.ExpiresAt = &expiresAt
	}
	return info
}

// APITokenInfo is attached to the request context of authenticated calls.
type APITokenInfo struct {
	Name           string
	RateLimit      uint
	CorsOrigins    []string
	DomainPatterns []string
	ExpiresAt      *time.Time
	IssuedAt       time.Time
}
