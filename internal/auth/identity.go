package auth

import (
	"context"

	"github.com/d60-Lab/gin-blog/internal/model"
)

// Identity 请求身份：Admin | Member | Anonymous
type Identity interface {
	identity()
}

// Anonymous is a caller without a usable credential.
type Anonymous struct{}

// Member is an authenticated user without the admin role.
type Member struct{ User *model.User }

// Admin is an authenticated user holding the admin role.
type Admin struct{ User *model.User }

func (Anonymous) identity() {}
func (Member) identity()    {}
func (Admin) identity()     {}

// IdentityOf classifies a loaded user.
func IdentityOf(u *model.User) Identity {
	switch {
	case u == nil:
		return Anonymous{}
	case u.Role == model.RoleAdmin:
		return Admin{User: u}
	default:
		return Member{User: u}
	}
}

// UserOf returns the user behind id, or false for Anonymous.
func UserOf(id Identity) (*model.User, bool) {
	switch v := id.(type) {
	case Admin:
		return v.User, true
	case Member:
		return v.User, true
	default:
		return nil, false
	}
}

// IsAdmin reports whether id is an Admin identity.
func IsAdmin(id Identity) bool {
	_, ok := id.(Admin)
	return ok
}

// RequireRole 权限闸门；只检查已解析的身份，不重新校验 token
func RequireRole(id Identity, role model.Role) error {
	if u, ok := UserOf(id); ok && u != nil && u.Role == role {
		return nil
	}
	return ErrForbidden
}

type identityKey struct{}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity attached to ctx, Anonymous when none is.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok && id != nil {
		return id
	}
	return Anonymous{}
}
