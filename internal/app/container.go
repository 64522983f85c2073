package app

import (
	"context"
	"time"

	"github.com/agrovoice/agrovoice-go/internal/application/advisor"
	"github.com/agrovoice/agrovoice-go/internal/application/doctor"
	syncsvc "github.com/agrovoice/agrovoice-go/internal/application/sync"
	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/ai"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/cache"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/config"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/connectivity"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/knowledge"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/market"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/remote"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/store"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/vision"
	"github.com/agrovoice/agrovoice-go/internal/infrastructure/weather"
	"github.com/agrovoice/agrovoice-go/internal/pkg/logger"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	AdvisorService *advisor.Service
	SyncService    *syncsvc.Service
	DoctorService  *doctor.Service
	CacheService   ports.CacheService
	Store          ports.KeyValueStore
	Connectivity   ports.ConnectivityDetector
	Weather        ports.WeatherProvider
	Vision         ports.VisionClassifier
	ConfigProvider ports.ConfigProvider
	Logger         ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	kb, err := knowledge.Load(cfg.Endpoints.Knowledge)
	if err != nil {
		return nil, err
	}

	kvStore := store.NewSQLiteStore()
	cacheService := cache.NewServiceWithLimits(kvStore, log,
		time.Duration(cfg.Cache.TTLDays)*24*time.Hour, cfg.Cache.AudioCapacity)

	detector := connectivity.New(cfg.Endpoints.ProbeURL, func() bool {
		return cfg.Preferences.ForceOffline
	})

	chatClient := ai.NewChatClient(config.Model(cfg, ""), nil)
	speechClient := ai.NewSpeechClient(cfg.Endpoints.Speech, nil)

	advisorService := &advisor.Service{
		Knowledge:    kb,
		Cache:        cacheService,
		Connectivity: detector,
		Chat:         chatClient,
		Speech:       speechClient,
		Logger:       log,
		ChatTimeout:  time.Duration(cfg.Preferences.TimeoutSeconds) * time.Second,
	}

	syncService := &syncsvc.Service{
		Store:        kvStore,
		Connectivity: detector,
		Market:       market.NewClient(cfg.Endpoints.Market, cfg.Endpoints.MarketKey, nil),
		Chat:         remote.NewChatArchiveClient(cfg.Endpoints.ChatSync, nil),
		Library:      remote.NewLibraryClient(cfg.Endpoints.Library, nil),
		Logger:       log,
		Commodities:  cfg.Sync.Commodities,
		TaskTimeout:  time.Duration(cfg.Sync.TaskTimeoutSecs) * time.Second,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Connectivity:   detector,
		Store:          kvStore,
		Knowledge:      kb,
	}

	return &Container{
		Config:         cfg,
		AdvisorService: advisorService,
		SyncService:    syncService,
		DoctorService:  doctorService,
		CacheService:   cacheService,
		Store:          kvStore,
		Connectivity:   detector,
		Weather:        weather.NewCachedProvider(weather.NewClient(cfg.Endpoints.Weather, nil), kvStore),
		Vision:         vision.NewClient(cfg.Endpoints.Vision, nil),
		ConfigProvider: cfgLoader,
		Logger:         log,
	}, nil
}
