package identity

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/db/models"
)

func testUser(id string) *models.User {
	return &models.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         "Test User",
		PasswordHash: "$2a$10$irrelevant",
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func bearerRequest(token string) AuthRequest {
	headers := http.Header{}
	if token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}
	return AuthRequest{Headers: headers}
}

func cookieRequest(value string) AuthRequest {
	return AuthRequest{
		Headers: http.Header{},
		Cookies: []*http.Cookie{{Name: auth.SessionCookieName, Value: value}},
	}
}

func TestTokenAuthenticator_Success(t *testing.T) {
	users := newMockUserRepository()
	tokens := newMockAPITokenRepository()
	user := testUser("user-1")
	users.users[user.ID] = user

	raw, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	tokens.tokens[hash] = &models.APIToken{
		ID:          "tok-1",
		UserID:      user.ID,
		Name:        "ci",
		TokenHash:   hash,
		Fingerprint: auth.Fingerprint(hash),
		CreatedAt:   time.Now(),
	}

	a := NewTokenAuthenticator(users, tokens)
	res, err := a.Authenticate(context.Background(), bearerRequest(raw))
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.Source != SourceBearer {
		t.Errorf("source = %q, want %q", res.Source, SourceBearer)
	}
	if res.User.ID != user.ID {
		t.Errorf("user ID = %q, want %q", res.User.ID, user.ID)
	}
	if res.TokenID != "tok-1" {
		t.Errorf("token ID = %q, want tok-1", res.TokenID)
	}
}

func TestTokenAuthenticator_NoHeader(t *testing.T) {
	a := NewTokenAuthenticator(newMockUserRepository(), newMockAPITokenRepository())

	res, err := a.Authenticate(context.Background(), AuthRequest{Headers: http.Header{}})
	if err != nil {
		t.Fatalf("Authenticate() error = %v, want nil (no credentials)", err)
	}
	if res != nil {
		t.Fatal("expected nil resolution for missing header")
	}
}

func TestTokenAuthenticator_NonBearerScheme(t *testing.T) {
	a := NewTokenAuthenticator(newMockUserRepository(), newMockAPITokenRepository())

	headers := http.Header{}
	headers.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, err := a.Authenticate(context.Background(), AuthRequest{Headers: headers})
	if err == nil {
		t.Fatal("expected error for non-bearer scheme")
	}
	if got := OutcomeOf(err); got != OutcomeMalformed {
		t.Errorf("outcome = %q, want %q", got, OutcomeMalformed)
	}
}

func TestTokenAuthenticator_UnknownToken(t *testing.T) {
	a := NewTokenAuthenticator(newMockUserRepository(), newMockAPITokenRepository())

	_, err := a.Authenticate(context.Background(), bearerRequest("deadbeef"))
	if err == nil {
		t.Fatal("expected error for unknown token")
	}
	if got := OutcomeOf(err); got != OutcomeNotFound {
		t.Errorf("outcome = %q, want %q", got, OutcomeNotFound)
	}
}

func TestTokenAuthenticator_RevokedToken(t *testing.T) {
	users := newMockUserRepository()
	tokens := newMockAPITokenRepository()
	user := testUser("user-1")
	users.users[user.ID] = user

	raw, hash, _ := auth.GenerateToken()
	tokens.tokens[hash] = &models.APIToken{
		ID: "tok-1", UserID: user.ID, TokenHash: hash, Revoked: true, CreatedAt: time.Now(),
	}

	a := NewTokenAuthenticator(users, tokens)
	_, err := a.Authenticate(context.Background(), bearerRequest(raw))
	if got := OutcomeOf(err); got != OutcomeRevoked {
		t.Errorf("outcome = %q, want %q", got, OutcomeRevoked)
	}
}

func TestTokenAuthenticator_ExpiredToken(t *testing.T) {
	users := newMockUserRepository()
	tokens := newMockAPITokenRepository()
	user := testUser("user-1")
	users.users[user.ID] = user

	raw, hash, _ := auth.GenerateToken()
	expired := time.Now().Add(-time.Hour)
	tokens.tokens[hash] = &models.APIToken{
		ID: "tok-1", UserID: user.ID, TokenHash: hash, ExpiresAt: &expired, CreatedAt: time.Now(),
	}

	a := NewTokenAuthenticator(users, tokens)
	_, err := a.Authenticate(context.Background(), bearerRequest(raw))
	if got := OutcomeOf(err); got != OutcomeExpired {
		t.Errorf("outcome = %q, want %q", got, OutcomeExpired)
	}
}

func TestTokenAuthenticator_TokenWithoutExpiryNeverExpires(t *testing.T) {
	users := newMockUserRepository()
	tokens := newMockAPITokenRepository()
	user := testUser("user-1")
	users.users[user.ID] = user

	raw, hash, _ := auth.GenerateToken()
	tokens.tokens[hash] = &models.APIToken{
		ID: "tok-1", UserID: user.ID, TokenHash: hash,
		CreatedAt: time.Now().Add(-365 * 24 * time.Hour),
	}

	a := NewTokenAuthenticator(users, tokens)
	res, err := a.Authenticate(context.Background(), bearerRequest(raw))
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if res == nil {
		t.Fatal("expected resolution for token with nil expiry")
	}
}

func TestTokenAuthenticator_DisabledOwner(t *testing.T) {
	users := newMockUserRepository()
	tokens := newMockAPITokenRepository()
	user := testUser("user-1")
	disabled := time.Now()
	user.DisabledAt = &disabled
	users.users[user.ID] = user

	raw, hash, _ := auth.GenerateToken()
	tokens.tokens[hash] = &models.APIToken{
		ID: "tok-1", UserID: user.ID, TokenHash: hash, CreatedAt: time.Now(),
	}

	a := NewTokenAuthenticator(users, tokens)
	_, err := a.Authenticate(context.Background(), bearerRequest(raw))
	if got := OutcomeOf(err); got != OutcomeRevoked {
		t.Errorf("outcome = %q, want %q", got, OutcomeRevoked)
	}
}

func TestTokenAuthenticator_StoreUnavailable(t *testing.T) {
	tokens := newMockAPITokenRepository()
	tokens.err = errors.New("connection refused")

	a := NewTokenAuthenticator(newMockUserRepository(), tokens)
	_, err := a.Authenticate(context.Background(), bearerRequest("deadbeef"))
	if got := OutcomeOf(err); got != OutcomeUnavailable {
		t.Errorf("outcome = %q, want %q", got, OutcomeUnavailable)
	}
}
