package registries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/procedure"
	"github.com/ChasLui/dokploy/internal/repository"
)

// Service manages container registry records. Credentials are stored as
// entered; the deployment engine uses them when pushing builds.
type Service struct {
	registries repository.RegistryRepository
}

// NewService creates the registry service.
func NewService(registries repository.RegistryRepository) *Service {
	return &Service{registries: registries}
}

// CreateInput is the payload for registry.create.
type CreateInput struct {
	Name         string  `json:"registryName"`
	URL          string  `json:"registryUrl"`
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	ImagePrefix  *string `json:"imagePrefix"`
	RegistryType string  `json:"registryType"`
}

// Create persists a new registry.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Registry, error) {
	registryType := models.RegistryType(in.RegistryType)
	if registryType == "" {
		registryType = models.RegistryTypeCloud
	}
	if registryType != models.RegistryTypeCloud && registryType != models.RegistryTypeSelfHosted {
		return nil, procedure.BadRequest("Unknown registry type %q", in.RegistryType)
	}

	now := time.Now()
	registry := &models.Registry{
		ID:           uuid.NewString(),
		Name:         in.Name,
		URL:          in.URL,
		Username:     in.Username,
		Password:     in.Password,
		ImagePrefix:  in.ImagePrefix,
		RegistryType: registryType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.registries.Create(ctx, registry); err != nil {
		return nil, fmt.Errorf("create registry: %w", err)
	}
	return registry, nil
}

// All lists every configured registry.
func (s *Service) All(ctx context.Context) ([]models.Registry, error) {
	return s.registries.List(ctx)
}

// One fetches a registry by ID.
func (s *Service) One(ctx context.Context, id string) (*models.Registry, error) {
	registry, err := s.registries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, procedure.NotFound("Registry not found")
		}
		return nil, err
	}
	return registry, nil
}

// UpdateInput is the payload for registry.update. Empty fields keep
// their stored values.
type UpdateInput struct {
	RegistryID  string  `json:"registryId"`
	Name        string  `json:"registryName"`
	URL         string  `json:"registryUrl"`
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	ImagePrefix *string `json:"imagePrefix"`
}

// Update modifies an existing registry.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*models.Registry, error) {
	registry, err := s.One(ctx, in.RegistryID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		registry.Name = in.Name
	}
	if in.URL != "" {
		registry.URL = in.URL
	}
	if in.Username != "" {
		registry.Username = in.Username
	}
	if in.Password != "" {
		registry.Password = in.Password
	}
	if in.ImagePrefix != nil {
		registry.ImagePrefix = in.ImagePrefix
	}
	registry.UpdatedAt = time.Now()

	if err := s.registries.Update(ctx, registry); err != nil {
		return nil, fmt.Errorf("update registry: %w", err)
	}
	return registry, nil
}

// Remove deletes a registry.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.One(ctx, id); err != nil {
		return err
	}
	return s.registries.Delete(ctx, id)
}

// TestConnection checks that the registry URL is plausibly reachable.
// The actual docker login happens on the deployment host, so this only
// rejects obviously invalid configurations.
func (s *Service) TestConnection(ctx context.Context, id string) error {
	registry, err := s.One(ctx, id)
	if err != nil {
		return err
	}
	if !strings.Contains(registry.URL, ".") && !strings.Contains(registry.URL, ":") {
		return procedure.BadRequest("Registry URL %q does not look like a host", registry.URL)
	}
	if registry.Username == "" || registry.Password == "" {
		return procedure.BadRequest("Registry credentials are incomplete")
	}
	return nil
}
