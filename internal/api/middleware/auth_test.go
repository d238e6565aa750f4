package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/model"
)

var errNoUser = errors.New("no user")

type stubUsers map[string]*model.User

func (s stubUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	if id == "boom" {
		return nil, errors.New("db down")
	}
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errNoUser
}

func setup(t *testing.T) (*gin.Engine, *auth.TokenCodec) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	codec := auth.NewTokenCodec("secret", time.Hour)
	resolver := auth.NewResolver(codec, stubUsers{
		"admin":  {ID: "admin", Role: model.RoleAdmin},
		"reader": {ID: "reader", Role: model.RoleUser},
	}, errNoUser)

	r := gin.New()
	r.Use(Recovery())
	kind := func(c *gin.Context) {
		switch Identity(c).(type) {
		case auth.Admin:
			c.String(http.StatusOK, "admin")
		case auth.Member:
			c.String(http.StatusOK, "member")
		default:
			c.String(http.StatusOK, "anonymous")
		}
	}
	r.GET("/soft", Authenticate(resolver, auth.Soft), kind)
	r.GET("/strict", Authenticate(resolver, auth.Strict), kind)
	r.GET("/admin", Authenticate(resolver, auth.Strict), RequireRole(model.RoleAdmin), kind)
	r.GET("/gate-only", RequireRole(model.RoleAdmin), kind)
	return r, codec
}

func do(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, c *auth.TokenCodec, id string) string {
	t.Helper()
	tok, err := c.Issue(id)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthenticate_Soft(t *testing.T) {
	r, codec := setup(t)

	assert.Equal(t, "anonymous", do(r, "/soft", "").Body.String())
	assert.Equal(t, "anonymous", do(r, "/soft", "Bearer garbage").Body.String())
	assert.Equal(t, "anonymous", do(r, "/soft", token(t, codec, "ghost")).Body.String())
	assert.Equal(t, "admin", do(r, "/soft", token(t, codec, "admin")).Body.String())
	assert.Equal(t, "member", do(r, "/soft", token(t, codec, "reader")).Body.String())
}

func TestAuthenticate_Strict(t *testing.T) {
	r, codec := setup(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/strict", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/strict", "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/strict", token(t, codec, "ghost")).Code)

	w := do(r, "/strict", token(t, codec, "reader"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "member", w.Body.String())
}

func TestAuthenticate_StorageFailureIs500(t *testing.T) {
	r, codec := setup(t)
	w := do(r, "/strict", token(t, codec, "boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestRequireRole(t *testing.T) {
	r, codec := setup(t)

	assert.Equal(t, http.StatusOK, do(r, "/admin", token(t, codec, "admin")).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", token(t, codec, "reader")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
	// the gate alone sees Anonymous and must reject, not panic
	assert.Equal(t, http.StatusForbidden, do(r, "/gate-only", "").Code)
}

func TestIdentity_ReadsRequestContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, auth.Anonymous{}, Identity(c))

	admin := auth.IdentityOf(&model.User{ID: "admin", Role: model.RoleAdmin})
	c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), admin))
	assert.Equal(t, admin, Identity(c))
	assert.Equal(t, admin, auth.FromContext(c.Request.Context()))
}
