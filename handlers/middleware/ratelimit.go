package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ethpandaops/txdecoder/metrics"
	"github.com/ethpandaops/txdecoder/types"
)

var (
	rateLimitVisitors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "txdecoder_rate_limiter_visitors_count",
		Help: "Number of tracked visitors in the api rate limiter",
	})
	rateLimitRejects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "txdecoder_rate_limiter_rejects_total",
		Help: "Number of api requests rejected by the rate limiter",
	})
)

// rateLimitEntry represents a rate limiter for a specific key
type rateLimitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware limits api calls per client ip or per token. Limits are
// configured in requests per minute.
type RateLimitMiddleware struct {
	config           *types.Config
	logger           logrus.FieldLogger
	rateLimiters     map[string]*rateLimitEntry
	mutex            sync.Mutex
	whitelistedIPs   map[string]bool
	whitelistedCIDRs []*net.IPNet
}

// NewRateLimitMiddleware creates a new rate limiting middleware instance
func NewRateLimitMiddleware(config *types.Config, logger logrus.FieldLogger) *RateLimitMiddleware {
	middleware := &RateLimitMiddleware{
		config:           config,
		logger:           logger,
		rateLimiters:     make(map[string]*rateLimitEntry),
		whitelistedIPs:   make(map[string]bool),
		whitelistedCIDRs: make([]*net.IPNet, 0),
	}

	for _, ipOrCidr := range config.Api.WhitelistedIPs {
		if _, ipNet, err := net.ParseCIDR(ipOrCidr); err == nil {
			middleware.whitelistedCIDRs = append(middleware.whitelistedCIDRs, ipNet)
		} else if parsedIP := net.ParseIP(ipOrCidr); parsedIP != nil {
			middleware.whitelistedIPs[parsedIP.String()] = true
		} else {
			logger.WithField("entry", ipOrCidr).Warn("invalid IP/CIDR in whitelist, ignoring")
		}
	}

	metrics.AddPreCollectFn(func() {
		middleware.mutex.Lock()
		defer middleware.mutex.Unlock()
		rateLimitVisitors.Set(float64(len(middleware.rateLimiters)))
	})

	return middleware
}

// StartCleanupLoop drops limiters that have not been used for 10 minutes
// until done is closed.
func (m *RateLimitMiddleware) StartCleanupLoop(done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.cleanupOldLimiters(time.Now().Add(-10 * time.Minute))
			}
		}
	}()
}

func (m *RateLimitMiddleware) cleanupOldLimiters(cutoff time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, entry := range m.rateLimiters {
		if entry.lastSeen.Before(cutoff) {
			delete(m.rateLimiters, key)
		}
	}
}

func (m *RateLimitMiddleware) isWhitelisted(ip string) bool {
	if m.whitelistedIPs[ip] {
		return true
	}

	clientIP := net.ParseIP(ip)
	if clientIP == nil {
		return false
	}

	for _, ipNet := range m.whitelistedCIDRs {
		if ipNet.Contains(clientIP) {
			return true
		}
	}

	return false
}

func (m *RateLimitMiddleware) getRateLimiter(key string, limit uint, burst uint) *rate.Limiter {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if burst == 0 {
		burst = 10
	}

	entry, exists := m.rateLimiters[key]
	if !exists {
		entry = &rateLimitEntry{
			limiter: rate.NewLimiter(rate.Limit(limit)/60, int(burst)), // per-minute to per-second
		}
		m.rateLimiters[key] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

// Middleware applies rate limiting to API requests
func (m *RateLimitMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := GetClientIP(r, m.config.RateLimit.ProxyCount)

		rateLimitKey := fmt.Sprintf("ip:%s", clientIP)
		rateLimit := m.config.Api.DefaultRateLimit
		rateLimitBurst := m.config.Api.DefaultRateLimitBurst

		if tokenInfo := GetTokenInfo(r); tokenInfo != nil {
			// tokens without a rate limit are unlimited
			rateLimit = tokenInfo.RateLimit
			rateLimitBurst = tokenInfo.RateLimit
			rateLimitKey = fmt.Sprintf("token:%s", tokenInfo.Name)
		}

		if m.config.Api.DisableDefaultRateLimit || rateLimit == 0 || m.isWhitelisted(clientIP) {
			next.ServeHTTP(w, r)
			return
		}

		limiter := m.getRateLimiter(rateLimitKey, rateLimit, rateLimitBurst)
		resetTime := strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10)
		w.Header().Set("X-RateLimit-Limit", strconv.FormatUint(uint64(rateLimit), 10))
		w.Header().Set("X-RateLimit-Reset", resetTime)

		if !limiter.AllowN(time.Now(), GetCallCost(r)) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			rateLimitRejects.Inc()

			m.logger.WithFields(logrus.Fields{
				"client_ip":      clientIP,
				"rate_limit_key": rateLimitKey,
				"rate_limit":     rateLimit,
			}).Warn("API rate limit exceeded")

			APIErrorResponse(w, http.StatusTooManyRequests, "ERROR: rate limit exceeded")
			return
		}

		remaining := limiter.Tokens()
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatFloat(remaining, 'f', 0, 64))

		next.ServeHTTP(w, r)
	})
}
