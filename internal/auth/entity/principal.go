package entity

import "context"

// RoleUser is the single role granted to subjects that pass code validation.
const RoleUser = "USER"

// Principal is the authenticated identity attached to a request after a
// successful gate check.
type Principal struct {
	SubjectID string
	Roles     []string
}

type principalKey struct{}

// SetPrincipal stores the principal in the context.
func SetPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns the principal stored by SetPrincipal, or nil.
func GetPrincipal(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	if !ok {
		return nil
	}
	return p
}
