package repository

import (
	"context"

	"github.com/ChasLui/dokploy/internal/db/models"
)

// UserRepository exposes persistence operations for dashboard users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

// SessionRepository exposes persistence operations for browser sessions.
// GetByTokenHash is the authentication hot path and must be read-only.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	UpdateLastUsed(ctx context.Context, id string) error
	Revoke(ctx context.Context, id string) error
	RevokeByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
	List(ctx context.Context) ([]models.Session, error)
}

// APITokenRepository exposes persistence operations for programmatic
// bearer tokens.
type APITokenRepository interface {
	Create(ctx context.Context, token *models.APIToken) error
	GetByID(ctx context.Context, id string) (*models.APIToken, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.APIToken, error)
	ListByUserID(ctx context.Context, userID string) ([]models.APIToken, error)
	UpdateLastUsed(ctx context.Context, id string) error
	Revoke(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.APIToken, error)
}

// RegistryRepository exposes persistence operations for container registries.
type RegistryRepository interface {
	Create(ctx context.Context, registry *models.Registry) error
	GetByID(ctx context.Context, id string) (*models.Registry, error)
	Update(ctx context.Context, registry *models.Registry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Registry, error)
}

// NodeRepository exposes persistence operations for the cluster node view.
type NodeRepository interface {
	Upsert(ctx context.Context, node *models.ClusterNode) error
	GetByID(ctx context.Context, id string) (*models.ClusterNode, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.ClusterNode, error)
}

// DatabaseRepository exposes persistence operations for managed database
// instances.
type DatabaseRepository interface {
	Create(ctx context.Context, instance *models.DatabaseInstance) error
	GetByID(ctx context.Context, id string) (*models.DatabaseInstance, error)
	GetByAppName(ctx context.Context, appName string) (*models.DatabaseInstance, error)
	Update(ctx context.Context, instance *models.DatabaseInstance) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.DatabaseInstance, error)
}
