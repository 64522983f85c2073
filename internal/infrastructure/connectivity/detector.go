// Package connectivity decides whether the assistant should behave as
// offline. The answer is sampled fresh on every resolution since rural
// connectivity flips frequently between requests.
package connectivity

import (
	"context"
	"net/http"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/domain"
)

// Detector probes a lightweight endpoint. Force-offline short-circuits the
// probe entirely.
type Detector struct {
	probeURL     string
	forceOffline func() bool
	client       *http.Client
}

// New builds a detector. forceOffline is consulted first on every call and
// may be nil.
func New(probeURL string, forceOffline func() bool) *Detector {
	return &Detector{
		probeURL:     probeURL,
		forceOffline: forceOffline,
		client:       &http.Client{Timeout: domain.DefaultProbeTimeout},
	}
}

// Offline reports true when the user forced offline mode or the probe
// endpoint is unreachable. Any probe error counts as offline.
func (d *Detector) Offline(ctx context.Context) bool {
	if d.forceOffline != nil && d.forceOffline() {
		return true
	}
	if d.probeURL == "" {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, domain.DefaultProbeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, d.probeURL, nil)
	if err != nil {
		return true
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return true
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 500
}

// Static is a fixed-answer detector for tests and forced modes.
type Static bool

// Offline implements ports.ConnectivityDetector.
func (s Static) Offline(context.Context) bool { return bool(s) }

// ProbeLatency measures one probe round-trip for diagnostics.
func (d *Detector) ProbeLatency(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.probeURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return time.Since(start), nil
}
