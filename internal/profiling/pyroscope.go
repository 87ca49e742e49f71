// Package profiling starts optional Pyroscope continuous profiling.
package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/hyunhan-cho/LT-GDG/internal/config"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

// Profiler wraps a running Pyroscope profiler.
type Profiler struct {
	profiler *pyroscope.Profiler
}

// Start begins continuous profiling when enabled in cfg. It returns a nil
// profiler, and no error, when profiling is disabled.
func Start(cfg config.ProfilingConfig, service config.ServiceConfig, log logger.Logger) (*Profiler, error) {
	if !cfg.Enabled {
		return nil, nil //nolint:nilnil // disabled is not an error
	}

	environment := os.Getenv("PYROSCOPE_ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	pcfg := pyroscope.Config{
		ApplicationName: "callguard." + service.Name,
		ServerAddress:   cfg.ServerURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": environment,
			"version":     service.Version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	}

	profiler, err := pyroscope.Start(pcfg)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	if log != nil {
		log.Info("Pyroscope continuous profiling started",
			logger.String("application", pcfg.ApplicationName),
			logger.String("server", cfg.ServerURL),
			logger.String("environment", environment),
		)
	}
	return &Profiler{profiler: profiler}, nil
}

// Stop stops the profiler. It is safe on a nil profiler.
func (p *Profiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
