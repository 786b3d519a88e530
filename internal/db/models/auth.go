package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Role classifies a user for the coarse dashboard permission check.
type Role string

const (
	// RoleAdmin may manage cluster-wide settings (registries, nodes, users).
	RoleAdmin Role = "admin"
	// RoleUser is the restricted role: project pages only, no cluster settings.
	RoleUser Role = "user"
)

// User represents a dashboard principal.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string     `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string     `bun:"email,notnull,unique"`
	Name         string     `bun:"name"`
	PasswordHash string     `bun:"password_hash,notnull"` // bcrypt hash
	Role         Role       `bun:"role,notnull,default:'user'"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	LastLoginAt  *time.Time `bun:"last_login_at"`
	DisabledAt   *time.Time `bun:"disabled_at"`
}

// IsAdmin reports whether the user holds the privileged role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session tracks an active browser login. The cookie carries the opaque
// session token; only its SHA-256 hash is stored.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:sess"`

	ID         string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID     string    `bun:"user_id,notnull,type:uuid"` // FK to users(id)
	TokenHash  string    `bun:"token_hash,notnull,unique"` // SHA256 hash of cookie token
	ExpiresAt  time.Time `bun:"expires_at,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	LastUsedAt time.Time `bun:"last_used_at,notnull,default:current_timestamp"`
	UserAgent  *string   `bun:"user_agent"`
	IPAddress  *string   `bun:"ip_address"`
	Revoked    bool      `bun:"revoked,notnull,default:false"`
}

// APIToken is a long-lived opaque credential for programmatic clients
// (CLI, CI pipelines). Distinct lifecycle from cookie sessions: explicitly
// revocable and optionally non-expiring.
type APIToken struct {
	bun.BaseModel `bun:"table:api_tokens,alias:tok"`

	ID          string     `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID      string     `bun:"user_id,notnull,type:uuid"` // FK to users(id)
	Name        string     `bun:"name,notnull"`
	TokenHash   string     `bun:"token_hash,notnull,unique"` // SHA256 hash of bearer token
	Fingerprint string     `bun:"fingerprint,notnull"`       // short base58 digest for audit display
	ExpiresAt   *time.Time `bun:"expires_at"`                // nil = never expires
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	LastUsedAt  *time.Time `bun:"last_used_at"`
	Revoked     bool       `bun:"revoked,notnull,default:false"`
}
