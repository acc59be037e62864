package config

import "errors"

var (
	ErrInvalidServerConfigs  = errors.New("invalid server configs: address and token sign key are required")
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: database DSN is required")
	ErrInvalidClientConfigs  = errors.New("invalid client configs: server url and cache dir are required")
)
