package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/gin-blog/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedAuthor(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	u := &model.User{Name: "Ana", Email: "ana@example.com", Password: "hash", Role: model.RoleAdmin}
	require.NoError(t, db.Create(u).Error)
	return u
}

// seedPosts creates n posts, newest last; every odd index is unpublished when mixed is set.
func seedPosts(t *testing.T, db *gorm.DB, author *model.User, n int, mixed bool) []*model.Post {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	posts := make([]*model.Post, n)
	for i := 0; i < n; i++ {
		p := &model.Post{
			Title:     fmt.Sprintf("post %02d", i),
			Content:   "body",
			AuthorID:  author.ID,
			Tags:      []string{"go"},
			Published: !mixed || i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(p).Error)
		posts[i] = p
	}
	return posts
}
