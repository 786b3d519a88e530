package databases

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/procedure"
	"github.com/ChasLui/dokploy/internal/repository"
)

var appNameRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// defaultImages maps each engine to the image used when the caller does
// not pin one.
var defaultImages = map[models.DatabaseEngine]string{
	models.EnginePostgres: "postgres:16",
	models.EngineMariaDB:  "mariadb:11",
}

// Service manages the desired state of database containers. Mutations
// update records only; the deployment engine reconciles containers
// against them.
type Service struct {
	databases repository.DatabaseRepository
	host      string // public hostname shown in external connection URLs
}

// NewService creates the databases service.
func NewService(databases repository.DatabaseRepository, host string) *Service {
	return &Service{databases: databases, host: host}
}

// CreateInput is the payload for <engine>.create.
type CreateInput struct {
	AppName      string `json:"appName"`
	DockerImage  string `json:"dockerImage"`
	DatabaseName string `json:"databaseName"`
	DatabaseUser string `json:"databaseUser"`
	Password     string `json:"databasePassword"`
}

// Create records a new database instance in the idle state.
func (s *Service) Create(ctx context.Context, engine models.DatabaseEngine, in CreateInput) (*models.DatabaseInstance, error) {
	if !appNameRe.MatchString(in.AppName) {
		return nil, procedure.BadRequest("App name %q must be lowercase alphanumeric with hyphens", in.AppName)
	}
	if _, err := s.databases.GetByAppName(ctx, in.AppName); err == nil {
		return nil, procedure.Conflict("App name %q is already in use", in.AppName)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	image := in.DockerImage
	if image == "" {
		image = defaultImages[engine]
	}

	now := time.Now()
	instance := &models.DatabaseInstance{
		ID:           uuid.NewString(),
		AppName:      in.AppName,
		Engine:       engine,
		DockerImage:  image,
		DatabaseName: in.DatabaseName,
		DatabaseUser: in.DatabaseUser,
		Password:     in.Password,
		Status:       models.DatabaseStatusIdle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.databases.Create(ctx, instance); err != nil {
		return nil, fmt.Errorf("create database instance: %w", err)
	}
	return instance, nil
}

// One fetches an instance by ID, scoped to the engine its procedure
// domain names.
func (s *Service) One(ctx context.Context, engine models.DatabaseEngine, id string) (*models.DatabaseInstance, error) {
	instance, err := s.databases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, procedure.NotFound("Database not found")
		}
		return nil, err
	}
	if instance.Engine != engine {
		return nil, procedure.NotFound("Database not found")
	}
	return instance, nil
}

// Start marks an instance as running.
func (s *Service) Start(ctx context.Context, engine models.DatabaseEngine, id string) (*models.DatabaseInstance, error) {
	return s.transition(ctx, engine, id, models.DatabaseStatusRunning)
}

// Stop marks an instance as stopped.
func (s *Service) Stop(ctx context.Context, engine models.DatabaseEngine, id string) (*models.DatabaseInstance, error) {
	return s.transition(ctx, engine, id, models.DatabaseStatusStopped)
}

func (s *Service) transition(ctx context.Context, engine models.DatabaseEngine, id string, status models.DatabaseStatus) (*models.DatabaseInstance, error) {
	instance, err := s.One(ctx, engine, id)
	if err != nil {
		return nil, err
	}
	instance.Status = status
	instance.UpdatedAt = time.Now()
	if err := s.databases.Update(ctx, instance); err != nil {
		return nil, fmt.Errorf("update database status: %w", err)
	}
	return instance, nil
}

// SaveExternalPort sets or clears the externally exposed port.
func (s *Service) SaveExternalPort(ctx context.Context, engine models.DatabaseEngine, id string, port *int) (*models.DatabaseInstance, error) {
	if port != nil && (*port < 1 || *port > 65535) {
		return nil, procedure.BadRequest("Port %d is out of range", *port)
	}

	instance, err := s.One(ctx, engine, id)
	if err != nil {
		return nil, err
	}
	instance.ExternalPort = port
	instance.UpdatedAt = time.Now()
	if err := s.databases.Update(ctx, instance); err != nil {
		return nil, fmt.Errorf("save external port: %w", err)
	}
	return instance, nil
}

// Credentials is the view rendered in the connection dialog.
type Credentials struct {
	DatabaseName  string `json:"databaseName"`
	DatabaseUser  string `json:"databaseUser"`
	Password      string `json:"databasePassword"`
	InternalHost  string `json:"internalHost"`
	ExternalPort  *int   `json:"externalPort"`
	ExternalURL   string `json:"externalUrl,omitempty"`
}

// GetCredentials builds the connection view for an instance.
func (s *Service) GetCredentials(ctx context.Context, engine models.DatabaseEngine, id string) (*Credentials, error) {
	instance, err := s.One(ctx, engine, id)
	if err != nil {
		return nil, err
	}
	return &Credentials{
		DatabaseName: instance.DatabaseName,
		DatabaseUser: instance.DatabaseUser,
		Password:     instance.Password,
		InternalHost: instance.AppName,
		ExternalPort: instance.ExternalPort,
		ExternalURL:  instance.ExternalConnectionURL(s.host),
	}, nil
}
