package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/musicscience37/htbuild/pkg/errors"
	"github.com/musicscience37/htbuild/pkg/observability"
)

// logHooks reports install and cache events at debug level and forwards
// them to Prometheus metrics when a metrics file is configured.
type logHooks struct {
	logger *log.Logger
	prom   *observability.PrometheusHooks
}

func (h logHooks) OnInstallStart(ctx context.Context, buildType string) {
	loggerFromContext(ctx).Debug("install started", "build_type", buildType)
	if h.prom != nil {
		h.prom.OnInstallStart(ctx, buildType)
	}
}

func (h logHooks) OnInstallComplete(ctx context.Context, buildType string, exitCode int, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("install aborted", "build_type", buildType, "err", err)
	} else {
		l.Debug("install completed", "build_type", buildType, "exit_code", exitCode, "took", d.Round(time.Millisecond))
	}
	if h.prom != nil {
		h.prom.OnInstallComplete(ctx, buildType, exitCode, d, err)
	}
}

func (h logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
	if h.prom != nil {
		h.prom.OnCacheHit(ctx, keyType)
	}
}

func (h logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
	if h.prom != nil {
		h.prom.OnCacheMiss(ctx, keyType)
	}
}

func (h logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
	if h.prom != nil {
		h.prom.OnCacheSet(ctx, keyType, size)
	}
}

// registerHooks routes observability events to the CLI logger, and to a
// fresh metrics registry when a metrics file is configured.
func (c *CLI) registerHooks() {
	h := logHooks{logger: c.Logger}
	c.metrics = nil
	if c.metricsFile() != "" {
		c.metrics = prom.NewRegistry()
		h.prom = observability.NewPrometheusHooks(c.metrics)
	}
	observability.SetInstallHooks(h)
	observability.SetCacheHooks(h)
}

func (c *CLI) metricsFile() string {
	if c.metricsPath != "" {
		return c.metricsPath
	}
	return c.cfg.MetricsFile
}

// FlushMetrics writes the collected metrics in the node_exporter textfile
// format. It does nothing unless a metrics file is configured.
func (c *CLI) FlushMetrics() error {
	if c.metrics == nil {
		return nil
	}
	path := c.metricsFile()
	if err := prom.WriteToTextfile(path, c.metrics); err != nil {
		return errors.Wrap(errors.ErrCodeFileSystem, err, "write metrics to %s", path)
	}
	c.Logger.Debug("wrote metrics", "path", path)
	return nil
}
