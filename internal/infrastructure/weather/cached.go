package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// CachedProvider wraps a live provider with snapshot persistence: every
// successful fetch is upserted into the weather_cache table, and a failed
// fetch is answered from the last snapshot for those coordinates while it
// is still fresh.
type CachedProvider struct {
	live  ports.WeatherProvider
	store ports.KeyValueStore
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedProvider builds the snapshot-backed weather provider.
func NewCachedProvider(live ports.WeatherProvider, store ports.KeyValueStore) *CachedProvider {
	return &CachedProvider{
		live:  live,
		store: store,
		ttl:   domain.WeatherSnapshotTTL,
		now:   time.Now,
	}
}

// CurrentConditions implements ports.WeatherProvider.
func (p *CachedProvider) CurrentConditions(ctx context.Context, lat, lon float64) (domain.WeatherContext, error) {
	conditions, err := p.live.CurrentConditions(ctx, lat, lon)
	if err == nil {
		p.saveSnapshot(ctx, lat, lon, conditions)
		return conditions, nil
	}
	if snapshot, ok := p.loadSnapshot(ctx, lat, lon); ok {
		return snapshot, nil
	}
	return domain.WeatherContext{}, err
}

func snapshotKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

func (p *CachedProvider) saveSnapshot(ctx context.Context, lat, lon float64, c domain.WeatherContext) {
	snapshot := domain.WeatherSnapshot{
		ID:              snapshotKey(lat, lon),
		Latitude:        lat,
		Longitude:       lon,
		TemperatureC:    c.TemperatureC,
		HumidityPercent: c.HumidityPercent,
		WeatherCode:     c.WeatherCode,
		Timestamp:       p.now(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	_ = p.store.Put(ctx, ports.TableWeatherCache, snapshot.ID, data)
}

func (p *CachedProvider) loadSnapshot(ctx context.Context, lat, lon float64) (domain.WeatherContext, bool) {
	data, ok, err := p.store.Get(ctx, ports.TableWeatherCache, snapshotKey(lat, lon))
	if err != nil || !ok {
		return domain.WeatherContext{}, false
	}
	var snapshot domain.WeatherSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.WeatherContext{}, false
	}
	if p.now().Sub(snapshot.Timestamp) > p.ttl {
		return domain.WeatherContext{}, false
	}
	return domain.WeatherContext{
		TemperatureC:    snapshot.TemperatureC,
		HumidityPercent: snapshot.HumidityPercent,
		WeatherCode:     snapshot.WeatherCode,
	}, true
}

var _ ports.WeatherProvider = (*CachedProvider)(nil)
