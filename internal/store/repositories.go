package store

import "github.com/kenread/kenread/internal/logger"

// Repositories bundles the persistence interfaces handed to the service
// layer.
type Repositories struct {
	UserRepository     UserRepository
	DocumentRepository DocumentRepository
}

// NewRepositories wires all repositories onto the shared connection.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db, log),
		DocumentRepository: NewDocumentRepository(db, log),
	}
}
