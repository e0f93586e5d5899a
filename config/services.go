package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeWorker runs the pipeline worker runners.
	ServiceModeWorker ServiceMode = "worker"
	// ServiceModeScheduler runs the metrics recalculation scheduler.
	ServiceModeScheduler ServiceMode = "scheduler"
	// ServiceModeReaper runs the lease reaper and progress pruner.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeWorker,
		ServiceModeScheduler,
		ServiceModeReaper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeWorker, ServiceModeScheduler, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, worker, scheduler, reaper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// WorkerConfig contains pipeline worker configuration.
type WorkerConfig struct {
	// Kinds is a comma-delimited list of work kinds this process runs.
	// Empty means all registered kinds.
	Kinds string `env:"WORKER_KINDS" envDefault:""`

	// Concurrency is the number of worker goroutines per kind.
	Concurrency int `env:"WORKER_CONCURRENCY" envDefault:"2"`

	// Lease is the visibility timeout granted on each claim.
	Lease time.Duration `env:"WORKER_LEASE" envDefault:"30s"`

	// PollInterval bounds the wait between empty-queue checks when no
	// notification arrives.
	PollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"15s"`
}

// Sanitize applies guardrails to worker configuration values.
func (w *WorkerConfig) Sanitize() {
	if w.Concurrency < 1 {
		w.Concurrency = 1
	}
	if w.Lease < 5*time.Second {
		w.Lease = 5 * time.Second
	}
	if w.PollInterval < time.Second {
		w.PollInterval = time.Second
	}
}

// KindList returns the configured kinds, trimmed, or nil when empty.
func (w *WorkerConfig) KindList() []string {
	if strings.TrimSpace(w.Kinds) == "" {
		return nil
	}
	parts := strings.Split(w.Kinds, ",")
	kinds := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// SchedulerConfig contains metrics scheduler configuration.
type SchedulerConfig struct {
	// MetricsSchedule is the cron expression for periodic metrics
	// recalculation across active engagements. Supports the standard five
	// fields plus @every/@hourly descriptors.
	MetricsSchedule string `env:"SCHEDULER_METRICS_SCHEDULE" envDefault:"@every 1h"`
}

// Sanitize applies guardrails to scheduler configuration values.
func (s *SchedulerConfig) Sanitize() {
	if strings.TrimSpace(s.MetricsSchedule) == "" {
		s.MetricsSchedule = "@every 1h"
	}
}

// ReaperConfig contains lease reaper service configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"1m"`

	// PendingMaxAge is the maximum age for pending work items before they
	// are marked as failed. Items stuck in pending longer than this were
	// never picked up and are presumed orphaned.
	PendingMaxAge time.Duration `env:"REAPER_PENDING_MAX_AGE" envDefault:"24h"`

	// ProgressMaxAgeDays is the age in days after which progress events of
	// terminal work items are pruned.
	ProgressMaxAgeDays int `env:"REAPER_PROGRESS_MAX_AGE_DAYS" envDefault:"30"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	if r.Interval < 10*time.Second {
		r.Interval = 10 * time.Second
	}
	if r.PendingMaxAge < 5*time.Minute {
		r.PendingMaxAge = 5 * time.Minute
	}
	if r.ProgressMaxAgeDays < 1 {
		r.ProgressMaxAgeDays = 1
	}
}
