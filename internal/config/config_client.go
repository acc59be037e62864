package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ClientConfig is the validated view of [StructuredConfig] consumed by the
// CLI client runtime.
type ClientConfig struct {
	Client  Client
	Catalog Catalog
}

// GetClientConfig builds and validates a client-specific config view from
// the merged structured configuration. When no cache directory is
// configured, a per-user default under the OS cache dir is used.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Client:  cfg.Client,
		Catalog: cfg.Catalog,
	}

	if clientCfg.Client.CacheDir == "" {
		base, cacheErr := os.UserCacheDir()
		if cacheErr != nil {
			base = "."
		}
		clientCfg.Client.CacheDir = filepath.Join(base, "kenread")
	}

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) validate() error {
	if cfg.Client.ServerURL == "" || cfg.Client.CacheDir == "" {
		return ErrInvalidClientConfigs
	}

	return nil
}
