package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/store"
)

type stubProvider struct {
	conditions domain.WeatherContext
	err        error
	calls      int
}

func (s *stubProvider) CurrentConditions(context.Context, float64, float64) (domain.WeatherContext, error) {
	s.calls++
	if s.err != nil {
		return domain.WeatherContext{}, s.err
	}
	return s.conditions, nil
}

func TestCachedProviderStoresSnapshot(t *testing.T) {
	live := &stubProvider{conditions: domain.WeatherContext{TemperatureC: 31, HumidityPercent: 60, WeatherCode: 2}}
	p := NewCachedProvider(live, store.NewMemoryStore())

	got, err := p.CurrentConditions(context.Background(), 28.61, 77.21)
	if err != nil {
		t.Fatalf("CurrentConditions: %v", err)
	}
	if got != live.conditions {
		t.Fatalf("got %+v, want %+v", got, live.conditions)
	}

	// The live provider now fails; the stored snapshot should answer.
	live.err = errors.New("dns failure")
	got, err = p.CurrentConditions(context.Background(), 28.61, 77.21)
	if err != nil {
		t.Fatalf("CurrentConditions after failure: %v", err)
	}
	if got != live.conditions {
		t.Fatalf("snapshot mismatch: got %+v", got)
	}
}

func TestCachedProviderExpiredSnapshot(t *testing.T) {
	live := &stubProvider{conditions: domain.WeatherContext{TemperatureC: 25, HumidityPercent: 50}}
	p := NewCachedProvider(live, store.NewMemoryStore())

	now := time.Now()
	p.now = func() time.Time { return now }
	if _, err := p.CurrentConditions(context.Background(), 19.07, 72.87); err != nil {
		t.Fatalf("CurrentConditions: %v", err)
	}

	live.err = errors.New("timeout")
	p.now = func() time.Time { return now.Add(domain.WeatherSnapshotTTL + time.Minute) }
	if _, err := p.CurrentConditions(context.Background(), 19.07, 72.87); err == nil {
		t.Fatal("expected error once the snapshot is stale")
	}
}

func TestCachedProviderMissReturnsFetchError(t *testing.T) {
	live := &stubProvider{err: errors.New("unreachable")}
	p := NewCachedProvider(live, store.NewMemoryStore())

	if _, err := p.CurrentConditions(context.Background(), 12.97, 77.59); err == nil {
		t.Fatal("expected the live fetch error with an empty cache")
	}
}
