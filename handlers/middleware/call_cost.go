package middleware

import (
	"context"
	"net/http"
	"sync"
)

type callCostKey string

const (
	contextKeyCallCost callCostKey = "call_cost"
)

var (
	endpointCosts = make(map[string]int)
	costMutex     sync.RWMutex
)

// SetEndpointCost sets the rate limit cost of a request path
func SetEndpointCost(path string, cost int) {
	costMutex.Lock()
	defer costMutex.Unlock()
	endpointCosts[path] = cost
}

// CallCostMiddleware stores the cost of the requested path in the request
// context for the rate limiter
func CallCostMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		costMutex.RLock()
		cost, exists := endpointCosts[r.URL.Path]
		costMutex.RUnlock()

		if !exists {
			cost = 1
		}

		ctx := context.WithValue(r.Context(), contextKeyCallCost, cost)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCallCost extracts the call cost from request context, defaults to 1
func GetCallCost(r *http.Request) int {
	if cost, ok := r.Context().Value(contextKeyCallCost).(int); ok {
		return cost
	}
	return 1
}
