package domain

// Config mirrors ~/.agrovoice/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Endpoints           EndpointSettings  `yaml:"endpoints"`
	Sync                SyncSettings      `yaml:"sync"`
	Cache               CacheSettings     `yaml:"cache"`
	Location            LocationSettings  `yaml:"location"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultLocale  string `yaml:"default_locale"`
	DefaultModel   string `yaml:"default_model"`
	ForceOffline   bool   `yaml:"force_offline"`
	SpeakAnswers   bool   `yaml:"speak_answers"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// ModelDefinition describes one chat model endpoint.
type ModelDefinition struct {
	Name       string `yaml:"name"`
	Endpoint   string `yaml:"endpoint"`
	AuthEnvVar string `yaml:"auth_env_var"`
	ModelID    string `yaml:"model_id"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// EndpointSettings locates the external collaborators.
type EndpointSettings struct {
	Weather   string `yaml:"weather"`
	Market    string `yaml:"market"`
	MarketKey string `yaml:"market_key_env"`
	Speech    string `yaml:"speech"`
	Vision    string `yaml:"vision"`
	ChatSync  string `yaml:"chat_sync"`
	Library   string `yaml:"library"`
	ProbeURL  string `yaml:"probe_url"`
	Knowledge string `yaml:"knowledge_file"`
}

// SyncSettings configures the background synchronizer.
type SyncSettings struct {
	Commodities     []string `yaml:"commodities"`
	TaskTimeoutSecs int      `yaml:"task_timeout"`
	OnStart         bool     `yaml:"on_start"`
}

// CacheSettings configures the response/audio cache.
type CacheSettings struct {
	TTLDays       int `yaml:"ttl_days"`
	AudioCapacity int `yaml:"audio_capacity"`
}

// LocationSettings pins the default coordinates for weather lookups.
type LocationSettings struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}
