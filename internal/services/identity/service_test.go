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

type chainFixture struct {
	users    *mockUserRepository
	sessions *mockSessionRepository
	tokens   *mockAPITokenRepository
	service  *Service
}

func newChainFixture() *chainFixture {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	tokens := newMockAPITokenRepository()
	return &chainFixture{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		service: NewService(
			NewTokenAuthenticator(users, tokens),
			NewSessionAuthenticator(users, sessions),
			nil,
		),
	}
}

func (f *chainFixture) addUser(id string) *models.User {
	user := testUser(id)
	f.users.users[id] = user
	return user
}

func (f *chainFixture) addToken(userID string) (raw string) {
	raw, hash, _ := auth.GenerateToken()
	f.tokens.tokens[hash] = &models.APIToken{
		ID: "tok-" + userID, UserID: userID, TokenHash: hash, CreatedAt: time.Now(),
	}
	return raw
}

func (f *chainFixture) addSession(userID string) (raw string) {
	raw, hash, _ := auth.GenerateToken()
	f.sessions.sessions[hash] = &models.Session{
		ID: "sess-" + userID, UserID: userID, TokenHash: hash,
		ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now(), LastUsedAt: time.Now(),
	}
	return raw
}

func TestAuthenticateRequest_NoCredentials(t *testing.T) {
	f := newChainFixture()

	res := f.service.AuthenticateRequest(context.Background(), AuthRequest{Headers: http.Header{}})
	if res != nil {
		t.Fatal("expected nil resolution for request without credentials")
	}
}

func TestAuthenticateRequest_SessionOnly(t *testing.T) {
	f := newChainFixture()
	user := f.addUser("user-1")
	cookie := f.addSession(user.ID)

	res := f.service.AuthenticateRequest(context.Background(), cookieRequest(cookie))
	if res == nil {
		t.Fatal("expected resolution")
	}
	if res.Source != SourceSession {
		t.Errorf("source = %q, want %q", res.Source, SourceSession)
	}
}

// A request carrying both a valid bearer token and a valid session
// cookie authenticates as the token owner. The cookie is never
// consulted.
func TestAuthenticateRequest_BearerTakesPrecedence(t *testing.T) {
	f := newChainFixture()
	tokenOwner := f.addUser("token-owner")
	cookieOwner := f.addUser("cookie-owner")
	bearer := f.addToken(tokenOwner.ID)
	cookie := f.addSession(cookieOwner.ID)

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+bearer)
	req := AuthRequest{
		Headers: headers,
		Cookies: []*http.Cookie{{Name: auth.SessionCookieName, Value: cookie}},
	}

	res := f.service.AuthenticateRequest(context.Background(), req)
	if res == nil {
		t.Fatal("expected resolution")
	}
	if res.Source != SourceBearer {
		t.Errorf("source = %q, want %q", res.Source, SourceBearer)
	}
	if res.User.ID != tokenOwner.ID {
		t.Errorf("resolved user = %q, want token owner %q", res.User.ID, tokenOwner.ID)
	}
}

// An invalid bearer token falls through to the session cookie rather
// than failing the whole request.
func TestAuthenticateRequest_InvalidBearerFallsThroughToSession(t *testing.T) {
	f := newChainFixture()
	user := f.addUser("user-1")
	cookie := f.addSession(user.ID)

	headers := http.Header{}
	headers.Set("Authorization", "Bearer not-a-real-token")
	req := AuthRequest{
		Headers: headers,
		Cookies: []*http.Cookie{{Name: auth.SessionCookieName, Value: cookie}},
	}

	res := f.service.AuthenticateRequest(context.Background(), req)
	if res == nil {
		t.Fatal("expected session resolution after bearer miss")
	}
	if res.Source != SourceSession {
		t.Errorf("source = %q, want %q", res.Source, SourceSession)
	}
}

// A credential store outage during bearer validation leaves the request
// unauthenticated; it never surfaces as an internal error to callers.
func TestAuthenticateRequest_StoreOutageMeansUnauthenticated(t *testing.T) {
	f := newChainFixture()
	f.tokens.err = errors.New("connection refused")

	res := f.service.AuthenticateRequest(context.Background(), bearerRequest("deadbeef"))
	if res != nil {
		t.Fatal("expected nil resolution when credential store is unavailable")
	}
}

func TestAuthenticateRequest_ExpiredSessionIsUnauthenticated(t *testing.T) {
	f := newChainFixture()
	user := f.addUser("user-1")
	cookie := f.addSession(user.ID)
	for _, s := range f.sessions.sessions {
		s.ExpiresAt = time.Now().Add(-time.Minute)
	}

	res := f.service.AuthenticateRequest(context.Background(), cookieRequest(cookie))
	if res != nil {
		t.Fatal("expected nil resolution for expired session")
	}
}

// Resolving a request twice yields the same identity and performs no
// writes, so gateway and guard can each call it for one page load.
func TestAuthenticateRequest_Idempotent(t *testing.T) {
	f := newChainFixture()
	user := f.addUser("user-1")
	cookie := f.addSession(user.ID)
	req := cookieRequest(cookie)
	ctx := context.Background()

	first := f.service.AuthenticateRequest(ctx, req)
	second := f.service.AuthenticateRequest(ctx, req)
	if first == nil || second == nil {
		t.Fatal("expected both resolutions to succeed")
	}
	if first.User.ID != second.User.ID || first.SessionID != second.SessionID {
		t.Error("repeated resolution disagreed")
	}
	if f.sessions.touched != 0 {
		t.Errorf("resolution wrote last-used %d times, want 0", f.sessions.touched)
	}
}
