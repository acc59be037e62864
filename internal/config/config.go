package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the kenread
// application. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token signing settings shared by server and client.
	App App `envPrefix:"APP_"`

	// Storage holds the server database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP API.
	Server Server `envPrefix:"SERVER_"`

	// Catalog holds settings for the upstream manga catalog API.
	Catalog Catalog `envPrefix:"CATALOG_"`

	// Client holds settings for the CLI client runtime.
	Client Client `envPrefix:"CLIENT_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	JSONFilePath string `env:"CONFIG"`
}

// App holds token lifecycle settings.
type App struct {
	// TokenSignKey is the secret used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY" json:"token_sign_key"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER" json:"token_issuer"`

	// TokenDuration is how long an issued token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION" json:"token_duration"`
}

// Storage groups persistence backend settings for the server.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the database connection settings. A DSN starting with
// "postgres://" or "postgresql://" selects the pgx driver; anything else is
// treated as an SQLite file path.
type DB struct {
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN" json:"dsn"`
}

// Server holds HTTP API settings.
type Server struct {
	// Env: SERVER_HTTP_ADDRESS
	HTTPAddress string `env:"HTTP_ADDRESS" json:"http_address"`
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
	// TrimSchedule is the cron expression for the nightly history trim job.
	// Env: SERVER_TRIM_SCHEDULE
	TrimSchedule string `env:"TRIM_SCHEDULE" json:"trim_schedule"`
}

// Catalog holds upstream catalog API settings.
type Catalog struct {
	// Env: CATALOG_BASE_URL
	BaseURL string `env:"BASE_URL" json:"base_url"`
	// Env: CATALOG_USER_AGENT
	UserAgent string `env:"USER_AGENT" json:"user_agent"`
	// RequestsPerSecond caps outbound catalog calls; MangaDex asks for 5.
	// Env: CATALOG_REQUESTS_PER_SECOND
	RequestsPerSecond int `env:"REQUESTS_PER_SECOND" json:"requests_per_second"`
}

// Client holds CLI client runtime settings.
type Client struct {
	// ServerURL is the base URL of the kenread backend.
	// Env: CLIENT_SERVER_URL
	ServerURL string `env:"SERVER_URL" json:"server_url"`
	// CacheDir is the directory holding the local persistence slots.
	// Env: CLIENT_CACHE_DIR
	CacheDir string `env:"CACHE_DIR" json:"cache_dir"`
	// Env: CLIENT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
	// ReloadInterval defines how often the background reload job re-fetches
	// bookmarks and history from the server.
	// Env: CLIENT_RELOAD_INTERVAL
	ReloadInterval time.Duration `env:"RELOAD_INTERVAL" json:"reload_interval"`
}

// Defaults applied after merging when a field was left unset everywhere.
const (
	defaultHTTPAddress      = "localhost:8080"
	defaultRequestTimeout   = 15 * time.Second
	defaultTrimSchedule     = "0 3 * * *"
	defaultCatalogBaseURL   = "https://api.mangadex.org"
	defaultCatalogUserAgent = "KenRead/1.0"
	defaultCatalogRPS       = 5
	defaultClientServerURL  = "http://localhost:8080"
	defaultTokenIssuer      = "kenread"
	defaultTokenDuration    = 24 * time.Hour
	defaultReloadInterval   = 5 * time.Minute
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Server.TrimSchedule == "" {
		cfg.Server.TrimSchedule = defaultTrimSchedule
	}
	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = defaultCatalogBaseURL
	}
	if cfg.Catalog.UserAgent == "" {
		cfg.Catalog.UserAgent = defaultCatalogUserAgent
	}
	if cfg.Catalog.RequestsPerSecond == 0 {
		cfg.Catalog.RequestsPerSecond = defaultCatalogRPS
	}
	if cfg.Client.ServerURL == "" {
		cfg.Client.ServerURL = defaultClientServerURL
	}
	if cfg.Client.RequestTimeout == 0 {
		cfg.Client.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Client.ReloadInterval == 0 {
		cfg.Client.ReloadInterval = defaultReloadInterval
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
}
