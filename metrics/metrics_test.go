package metrics

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsHandlerConcurrentScrapes(t *testing.T) {
	var collects atomic.Int32
	AddPreCollectFn(func() {
		collects.Add(1)
	})
	AbiCacheEntries.Set(7)

	handler := GetMetricsHandler()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()

	// scrapes within the collect interval share one pre-collect run
	assert.Equal(t, int32(1), collects.Load())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "txdecoder_abi_cache_entries 7")
}
