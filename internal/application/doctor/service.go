package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// latencyProber is implemented by probe-based connectivity detectors.
type latencyProber interface {
	ProbeLatency(context.Context) (time.Duration, error)
}

// Service runs environment diagnostics for the advisory stack.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Connectivity   ports.ConnectivityDetector
	Store          ports.KeyValueStore
	Knowledge      *domain.KnowledgeBase
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded, format %s", cfg.ConfigFormatVersion)))

	if s.Knowledge != nil {
		checks = append(checks, ok("Knowledge base", fmt.Sprintf(
			"%d crop entries, %d concepts, %d pattern rules",
			len(s.Knowledge.Entries), len(s.Knowledge.Concepts), len(s.Knowledge.Patterns))))
	} else {
		checks = append(checks, fail("Knowledge base", "not loaded"))
	}

	if s.Store != nil {
		if _, err := s.Store.Count(ctx, ports.TableAICache); err != nil {
			checks = append(checks, fail("Local store", err.Error()))
		} else {
			checks = append(checks, ok("Local store", "reachable"))
		}
	}

	if s.Connectivity != nil {
		if s.Connectivity.Offline(ctx) {
			checks = append(checks, warn("Connectivity", "offline mode: cascade will use cache and knowledge base only"))
		} else {
			details := "online"
			if prober, isProber := s.Connectivity.(latencyProber); isProber {
				if latency, err := prober.ProbeLatency(ctx); err == nil {
					details = fmt.Sprintf("online, probe %s", latency.Round(time.Millisecond))
				}
			}
			checks = append(checks, ok("Connectivity", details))
		}
	}

	if cfg.Endpoints.Speech == "" {
		checks = append(checks, warn("Speech endpoint", "not configured; answers will not be spoken"))
	} else {
		checks = append(checks, ok("Speech endpoint", cfg.Endpoints.Speech))
	}
	if cfg.Endpoints.Vision == "" {
		checks = append(checks, warn("Vision endpoint", "not configured; photo diagnosis disabled"))
	} else {
		checks = append(checks, ok("Vision endpoint", cfg.Endpoints.Vision))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
