package service

import (
	"github.com/kenread/kenread/internal/config"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/internal/store"
)

// Services bundles the business-logic services handed to the HTTP layer.
type Services struct {
	AuthService     AuthService
	DocumentService DocumentService
}

// NewServices wires all services onto the repositories.
func NewServices(repos *store.Repositories, cfg config.App, logger *logger.Logger) *Services {
	return &Services{
		AuthService:     NewAuthService(repos.UserRepository, cfg, logger),
		DocumentService: NewDocumentService(repos.DocumentRepository, logger),
	}
}
