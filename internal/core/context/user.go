// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID string
	OrgID  string
	Email  string
	Role   string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetOrgID returns the authenticated org ID from context or empty string.
// Every persisted row is scoped by this value; handlers must refuse to
// operate when it is missing.
func GetOrgID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.OrgID
	}
	return ""
}

// IsOwner reports whether the authenticated user has the owner role.
func IsOwner(ctx context.Context) bool {
	u := GetUser(ctx)
	return u != nil && u.Role == "owner"
}
