package domain

import (
	"context"
	"regexp"
)

// MaxTenantIDLength bounds tenant identifiers.
const MaxTenantIDLength = 128

// Tenant ids never contain ':' or glob metacharacters, so cache-key prefixes of
// two different tenants can't overlap.
var tenantIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type principalKey struct{}

// Principal is the authenticated caller. TenantID is authoritative for every
// read the request performs.
type Principal struct {
	TenantID string
	UserID   string
	Admin    bool
}

// ValidateTenantID checks the tenant identifier format.
func ValidateTenantID(id string) error {
	if id == "" {
		return NewValidationError("tenantId", "is required")
	}
	if len(id) > MaxTenantIDLength {
		return NewValidationError("tenantId", "too long")
	}
	if !tenantIDRegex.MatchString(id) {
		return NewValidationError("tenantId", "must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// ContextWithPrincipal stores the authenticated principal in the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the principal. ok is false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
