package metrics

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// minCollectInterval throttles pre-collect hooks between scrapes.
const minCollectInterval = 1 * time.Second

var (
	preCollectMutex sync.Mutex
	preCollectFns   []func()
)

// AddPreCollectFn registers a hook that refreshes gauges before a scrape.
func AddPreCollectFn(fn func()) {
	preCollectMutex.Lock()
	defer preCollectMutex.Unlock()
	preCollectFns = append(preCollectFns, fn)
}

func runPreCollectFns() {
	preCollectMutex.Lock()
	fns := make([]func(), len(preCollectFns))
	copy(fns, preCollectFns)
	preCollectMutex.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// MetricsHandler serves the prometheus registry and runs the pre-collect
// hooks at most once per minCollectInterval.
type MetricsHandler struct {
	handler         http.Handler
	collectMutex    sync.Mutex
	lastCollectTime time.Time
}

// StartMetricsServer serves the metrics on a dedicated listener.
func StartMetricsServer(logger logrus.FieldLogger, host string, port string) error {
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{
		Addr:              host + ":" + port,
		Handler:           GetMetricsHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	go func() {
		logger.Infof("metrics server listening on %v", srv.Addr)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Error serving metrics")
		}
	}()

	return nil
}

// GetMetricsHandler returns a handler for mounting /metrics on another router.
func GetMetricsHandler() *MetricsHandler {
	return &MetricsHandler{
		handler: promhttp.Handler(),
	}
}

func (mh *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mh.collectMutex.Lock()
	if time.Since(mh.lastCollectTime) > minCollectInterval {
		runPreCollectFns()
		mh.lastCollectTime = time.Now()
	}
	mh.collectMutex.Unlock()

	mh.handler.ServeHTTP(w, r)
}
