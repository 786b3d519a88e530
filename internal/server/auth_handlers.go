package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/repository"
	"github.com/ChasLui/dokploy/internal/services/identity"
)

// AuthHandlers serves login, logout and whoami. Login sits outside the
// gateway; logout and whoami sit behind it.
type AuthHandlers struct {
	users           repository.UserRepository
	sessions        repository.SessionRepository
	throttle        *auth.LoginThrottle
	sessionDuration time.Duration
	secureCookies   bool
}

// NewAuthHandlers creates the auth endpoint handlers.
func NewAuthHandlers(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	throttle *auth.LoginThrottle,
	sessionDuration time.Duration,
	secureCookies bool,
) *AuthHandlers {
	return &AuthHandlers{
		users:           users,
		sessions:        sessions,
		throttle:        throttle,
		sessionDuration: sessionDuration,
		secureCookies:   secureCookies,
	}
}

// userView is the client-facing shape of a user. Password hashes never
// leave the server.
type userView struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

func viewOf(user *models.User) userView {
	return userView{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}

// HandleLogin verifies an email/password pair and establishes a
// session. Failures are uniform: wrong email and wrong password are
// indistinguishable to the caller.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	// RealIP middleware has already rewritten RemoteAddr.
	throttleKey := r.RemoteAddr
	if !h.throttle.Allow(throttleKey) {
		writeMessage(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), body.Email)
	if err != nil {
		h.throttle.RecordFailure(throttleKey)
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)) != nil {
		h.throttle.RecordFailure(throttleKey)
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if user.DisabledAt != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, tokenHash, err := auth.GenerateToken()
	if err != nil {
		log.Printf("login: generate session token: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.sessionDuration)
	session := &models.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		TokenHash:  tokenHash,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		LastUsedAt: now,
		UserAgent:  strPtr(r.UserAgent()),
		IPAddress:  strPtr(r.RemoteAddr),
	}
	if err := h.sessions.Create(r.Context(), session); err != nil {
		log.Printf("login: create session (user_id=%s): %v", user.ID, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.throttle.Reset(throttleKey)

	lastLogin := now
	user.LastLoginAt = &lastLogin
	if err := h.users.Update(r.Context(), user); err != nil {
		// Bookkeeping only; the session is already established.
		log.Printf("login: update last login (user_id=%s): %v", user.ID, err)
	}

	http.SetCookie(w, auth.NewSessionCookie(token, expiresAt, h.secureCookies))
	writeJSON(w, http.StatusOK, viewOf(user))
}

// HandleLogout revokes the current session and clears the cookie.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	res := identity.ResolutionFromContext(r.Context())
	if res == nil || res.SessionID == "" {
		writeMessage(w, http.StatusBadRequest, "No active session")
		return
	}

	if err := h.sessions.Revoke(r.Context(), res.SessionID); err != nil {
		log.Printf("logout: revoke session (session_id=%s): %v", res.SessionID, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to revoke session")
		return
	}

	http.SetCookie(w, auth.ExpiredSessionCookie(h.secureCookies))
	writeJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

// HandleWhoAmI returns the authenticated user.
func (h *AuthHandlers) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		// The gateway guarantees a user; this is a wiring bug.
		writeUnauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(user))
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
