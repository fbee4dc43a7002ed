// Package auth provides authentication for shop accounts.
package auth

import (
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
)

// Role is the user's role within the organization.
type Role string

const (
	// RoleOwner can manage settings, users and all records.
	RoleOwner Role = "owner"
	// RoleStaff can record sales, khata entries and expenses.
	RoleStaff Role = "staff"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleStaff
}

// User is a login account bound to one organization.
type User struct {
	ID                  id.ID      `db:"id" json:"id"`
	OrgID               id.ID      `db:"org_id" json:"orgId"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Name                string     `db:"name" json:"name"`
	Role                Role       `db:"role" json:"role"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// NewUser creates a new active user.
func NewUser(orgID id.ID, email, passwordHash string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		OrgID:        orgID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsLocked returns true while the account is locked out.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin checks whether the account may authenticate.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failure counter and locks the account
// once the limit is hit.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failure counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// Credentials is a login request.
type Credentials struct {
	Email    string
	Password string
}

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// RefreshToken is a stored, hashed refresh token.
type RefreshToken struct {
	ID        id.ID      `db:"id" json:"id"`
	UserID    id.ID      `db:"user_id" json:"userId"`
	TokenHash string     `db:"token_hash" json:"-"`
	ExpiresAt time.Time  `db:"expires_at" json:"expiresAt"`
	RevokedAt *time.Time `db:"revoked_at" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

// IsValid reports whether the token is usable.
func (t *RefreshToken) IsValid() bool {
	return t.RevokedAt == nil && time.Now().Before(t.ExpiresAt)
}
