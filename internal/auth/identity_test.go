package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/gin-blog/internal/model"
)

func TestIdentityOf(t *testing.T) {
	admin := &model.User{ID: "a", Role: model.RoleAdmin}
	member := &model.User{ID: "m", Role: model.RoleUser}

	assert.Equal(t, Anonymous{}, IdentityOf(nil))
	assert.Equal(t, Admin{User: admin}, IdentityOf(admin))
	assert.Equal(t, Member{User: member}, IdentityOf(member))

	u, ok := UserOf(IdentityOf(member))
	assert.True(t, ok)
	assert.Same(t, member, u)

	_, ok = UserOf(Anonymous{})
	assert.False(t, ok)

	assert.True(t, IsAdmin(IdentityOf(admin)))
	assert.False(t, IsAdmin(IdentityOf(member)))
	assert.False(t, IsAdmin(Anonymous{}))
}

func TestRequireRole(t *testing.T) {
	admin := IdentityOf(&model.User{ID: "a", Role: model.RoleAdmin})
	member := IdentityOf(&model.User{ID: "m", Role: model.RoleUser})

	assert.NoError(t, RequireRole(admin, model.RoleAdmin))
	assert.ErrorIs(t, RequireRole(member, model.RoleAdmin), ErrForbidden)
	assert.NoError(t, RequireRole(member, model.RoleUser))
	assert.ErrorIs(t, RequireRole(Anonymous{}, model.RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, model.RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, RequireRole(Admin{}, model.RoleAdmin), ErrForbidden)
}

func TestIdentityContext(t *testing.T) {
	assert.Equal(t, Anonymous{}, FromContext(context.Background()))

	admin := IdentityOf(&model.User{ID: "a", Role: model.RoleAdmin})
	ctx := WithIdentity(context.Background(), admin)
	assert.Equal(t, admin, FromContext(ctx))
}
