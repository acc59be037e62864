// Package http implements the HTTP transport layer of the backend: the route
// table, middleware for tracing, logging, and JWT auth, the auth and document
// endpoints, and the catalog proxy.
package http

import (
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kenread/kenread/internal/config"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/internal/service"
)

type Handler struct {
	services *service.Services

	proxy *resty.Client

	logger *logger.Logger
}

func NewHandler(services *service.Services, catalogCfg config.Catalog, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	proxy := resty.New().
		SetBaseURL(catalogCfg.BaseURL).
		SetTimeout(15 * time.Second).
		SetHeader("User-Agent", catalogCfg.UserAgent)

	return &Handler{
		services: services,
		proxy:    proxy,
		logger:   logger,
	}
}
