package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/repository"
)

// mockUserRepository for testing
type mockUserRepository struct {
	users map[string]*models.User // id → user
	err   error                   // injected infrastructure failure
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[string]*models.User{}}
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]models.User, error) {
	result := []models.User{}
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

// mockSessionRepository for testing
type mockSessionRepository struct {
	sessions map[string]*models.Session // tokenHash → session
	err      error
	touched  int // UpdateLastUsed call count
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[string]*models.Session{}}
}

func (m *mockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	m.sessions[session.TokenHash] = session
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("session %w", repository.ErrNotFound)
}

func (m *mockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.sessions[tokenHash]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("session %w", repository.ErrNotFound)
}

func (m *mockSessionRepository) UpdateLastUsed(ctx context.Context, id string) error {
	m.touched++
	for _, s := range m.sessions {
		if s.ID == id {
			s.LastUsedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("session %w", repository.ErrNotFound)
}

func (m *mockSessionRepository) Revoke(ctx context.Context, id string) error {
	for _, s := range m.sessions {
		if s.ID == id {
			s.Revoked = true
			return nil
		}
	}
	return fmt.Errorf("session %w", repository.ErrNotFound)
}

func (m *mockSessionRepository) RevokeByUserID(ctx context.Context, userID string) error {
	for _, s := range m.sessions {
		if s.UserID == userID {
			s.Revoked = true
		}
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) error {
	for hash, s := range m.sessions {
		if s.ExpiresAt.Before(time.Now()) {
			delete(m.sessions, hash)
		}
	}
	return nil
}

func (m *mockSessionRepository) List(ctx context.Context) ([]models.Session, error) {
	result := []models.Session{}
	for _, s := range m.sessions {
		result = append(result, *s)
	}
	return result, nil
}

// mockAPITokenRepository for testing
type mockAPITokenRepository struct {
	tokens map[string]*models.APIToken // tokenHash → token
	err    error
}

func newMockAPITokenRepository() *mockAPITokenRepository {
	return &mockAPITokenRepository{tokens: map[string]*models.APIToken{}}
}

func (m *mockAPITokenRepository) Create(ctx context.Context, token *models.APIToken) error {
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockAPITokenRepository) GetByID(ctx context.Context, id string) (*models.APIToken, error) {
	for _, t := range m.tokens {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("api token %w", repository.ErrNotFound)
}

func (m *mockAPITokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.APIToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	if t, ok := m.tokens[tokenHash]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("api token %w", repository.ErrNotFound)
}

func (m *mockAPITokenRepository) ListByUserID(ctx context.Context, userID string) ([]models.APIToken, error) {
	result := []models.APIToken{}
	for _, t := range m.tokens {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockAPITokenRepository) UpdateLastUsed(ctx context.Context, id string) error {
	for _, t := range m.tokens {
		if t.ID == id {
			now := time.Now()
			t.LastUsedAt = &now
			return nil
		}
	}
	return fmt.Errorf("api token %w", repository.ErrNotFound)
}

func (m *mockAPITokenRepository) Revoke(ctx context.Context, id string) error {
	for _, t := range m.tokens {
		if t.ID == id {
			t.Revoked = true
			return nil
		}
	}
	return fmt.Errorf("api token %w", repository.ErrNotFound)
}

func (m *mockAPITokenRepository) List(ctx context.Context) ([]models.APIToken, error) {
	result := []models.APIToken{}
	for _, t := range m.tokens {
		result = append(result, *t)
	}
	return result, nil
}
