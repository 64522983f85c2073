package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/agrovoice/agrovoice-go/assets"
	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/pkg/filesystem"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.agrovoice/config.yaml
// (overridable via AGROVOICE_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is seeded from the
// embedded default configuration.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("AGROVOICE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".agrovoice", "config.yaml")
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultLocale == "" {
		cfg.Preferences.DefaultLocale = string(domain.DefaultLocale)
	}
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 30
	}
	if cfg.Cache.TTLDays == 0 {
		cfg.Cache.TTLDays = 7
	}
	if cfg.Cache.AudioCapacity == 0 {
		cfg.Cache.AudioCapacity = domain.AudioCacheCapacity
	}
	if cfg.Sync.TaskTimeoutSecs == 0 {
		cfg.Sync.TaskTimeoutSecs = int(domain.DefaultSyncTaskTimeout.Seconds())
	}
	if len(cfg.Sync.Commodities) == 0 {
		cfg.Sync.Commodities = []string{"Tomato", "Onion", "Potato", "Wheat", "Rice"}
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

// Model returns the configured model definition, preferring the named one.
func Model(cfg domain.Config, name string) domain.ModelDefinition {
	if name == "" {
		name = cfg.Preferences.DefaultModel
	}
	for _, m := range cfg.Models {
		if m.Name == name {
			return m
		}
	}
	if len(cfg.Models) > 0 {
		return cfg.Models[0]
	}
	return domain.ModelDefinition{}
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
