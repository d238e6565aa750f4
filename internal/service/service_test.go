package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
)

type testEnv struct {
	db    *gorm.DB
	posts PostService
	auth  AuthService
	users UserService
	codec *auth.TokenCodec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Post{}))
	t.Cleanup(func() { _ = sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	isAdmin := func(email string) bool { return email == "admin@blog.com" }
	return &testEnv{
		db:    db,
		posts: NewPostService(repository.NewPostRepository(db)),
		auth:  NewAuthService(userRepo, codec, isAdmin, bcrypt.MinCost),
		users: NewUserService(userRepo),
		codec: codec,
	}
}

func (e *testEnv) author(t *testing.T) *model.User {
	t.Helper()
	u := &model.User{Name: "Admin", Email: "author@example.com", Password: "x", Role: model.RoleAdmin}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func boolPtr(b bool) *bool { return &b }
