package observability

import (
	"context"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Install results used as the "result" label.
const (
	ResultSuccess = "success" // child exited 0
	ResultFailure = "failure" // child exited non-zero
	ResultError   = "error"   // child never ran or failed to start
)

// PrometheusHooks implements [InstallHooks] and [CacheHooks] with
// Prometheus metrics registered on one registry.
type PrometheusHooks struct {
	installs        *prom.CounterVec
	installDuration *prom.HistogramVec
	lastExitCode    *prom.GaugeVec
	cacheEvents     *prom.CounterVec
	cacheBytes      prom.Counter
}

// NewPrometheusHooks creates the metrics and registers them on reg. A nil
// reg gets a fresh registry.
func NewPrometheusHooks(reg *prom.Registry) *PrometheusHooks {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	h := &PrometheusHooks{
		installs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "htbuild",
			Name:      "installs_total",
			Help:      "Install runs by build type and result",
		}, []string{"build_type", "result"}),
		installDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "htbuild",
			Name:      "install_duration_seconds",
			Help:      "Duration of install runs including the resolution tool",
			Buckets:   prom.ExponentialBuckets(0.5, 2, 10),
		}, []string{"build_type"}),
		lastExitCode: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "htbuild",
			Name:      "install_last_exit_code",
			Help:      "Exit code of the most recent install run (-1 if the tool did not run)",
		}, []string{"build_type"}),
		cacheEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "htbuild",
			Name:      "cache_events_total",
			Help:      "Package cache events by key type and event",
		}, []string{"type", "event"}),
		cacheBytes: prom.NewCounter(prom.CounterOpts{
			Namespace: "htbuild",
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the package cache",
		}),
	}
	reg.MustRegister(h.installs, h.installDuration, h.lastExitCode, h.cacheEvents, h.cacheBytes)
	return h
}

func (h *PrometheusHooks) OnInstallStart(context.Context, string) {}

func (h *PrometheusHooks) OnInstallComplete(_ context.Context, buildType string, exitCode int, d time.Duration, err error) {
	result := ResultSuccess
	switch {
	case err != nil:
		result = ResultError
	case exitCode != 0:
		result = ResultFailure
	}
	h.installs.WithLabelValues(buildType, result).Inc()
	h.installDuration.WithLabelValues(buildType).Observe(d.Seconds())
	h.lastExitCode.WithLabelValues(buildType).Set(float64(exitCode))
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

var (
	_ InstallHooks = (*PrometheusHooks)(nil)
	_ CacheHooks   = (*PrometheusHooks)(nil)
)
