package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-blog/internal/auth"
)

func TestMakeExcerpt(t *testing.T) {
	assert.Equal(t, "Hello world...", MakeExcerpt("<p>Hello <b>world</b></p>"))

	long := strings.Repeat("é", 400)
	got := MakeExcerpt(long)
	assert.Equal(t, strings.Repeat("é", 150)+"...", got)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "web dev", "api"}, NormalizeTags([]string{" Go ", "Web Dev", "", "   ", "API"}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
}

func TestPostService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.author(t)

	p, err := env.posts.Create(ctx, author, CreatePostInput{
		Title:   "  First post ",
		Content: "<h1>Intro</h1><p>Body</p>",
		Tags:    []string{" Go", "GIN "},
	})
	require.NoError(t, err)
	assert.Equal(t, "First post", p.Title)
	assert.True(t, p.Published, "published defaults to true")
	assert.Equal(t, "IntroBody...", p.Excerpt)
	assert.Equal(t, []string{"go", "gin"}, p.Tags)
	assert.Zero(t, p.Likes)
	assert.Zero(t, p.Views)
	require.NotNil(t, p.Author)
	assert.Equal(t, author.ID, p.Author.ID)

	draft, err := env.posts.Create(ctx, author, CreatePostInput{Title: "Draft", Content: "x", Published: boolPtr(false), Excerpt: "custom"})
	require.NoError(t, err)
	assert.False(t, draft.Published)
	assert.Equal(t, "custom", draft.Excerpt)
}

func TestPostService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	author := env.author(t)

	_, err := env.posts.Create(context.Background(), author, CreatePostInput{
		Title:   strings.Repeat("t", 201),
		Content: "   ",
		Excerpt: strings.Repeat("e", 301),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)

	var cnt int64
	require.NoError(t, env.db.Table("posts").Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestCreatePostInput_Violations(t *testing.T) {
	fields := CreatePostInput{Title: "   "}.Violations()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Field
	}
	assert.Equal(t, []string{"title", "content"}, names)

	assert.Empty(t, CreatePostInput{Title: "ok", Content: "c"}.Violations())
}

func TestPostService_ListVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.author(t)
	for i := 0; i < 6; i++ {
		_, err := env.posts.Create(ctx, author, CreatePostInput{Title: fmt.Sprintf("p%d", i), Content: "c", Published: boolPtr(i < 4)})
		require.NoError(t, err)
	}

	guest, err := env.posts.List(ctx, auth.Anonymous{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, guest.Pagination.Total)
	for _, p := range guest.Posts {
		assert.True(t, p.Published)
	}

	member, err := env.posts.List(ctx, auth.Member{User: author}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, member.Pagination.Total)

	admin, err := env.posts.List(ctx, auth.IdentityOf(author), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 6, admin.Pagination.Total)
	assert.Len(t, admin.Posts, 6)
}

func TestPostService_ListPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.author(t)
	for i := 0; i < 10; i++ {
		_, err := env.posts.Create(ctx, author, CreatePostInput{Title: fmt.Sprintf("p%d", i), Content: "c"})
		require.NoError(t, err)
	}

	page, err := env.posts.List(ctx, auth.Anonymous{}, 2, 6)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 4)
	assert.Equal(t, Pagination{Current: 2, Pages: 2, Total: 10}, page.Pagination)
}

func TestPostService_GetCountsViewsAndHidesDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.author(t)

	pub, err := env.posts.Create(ctx, author, CreatePostInput{Title: "pub", Content: "c"})
	require.NoError(t, err)
	draft, err := env.posts.Create(ctx, author, CreatePostInput{Title: "draft", Content: "c", Published: boolPtr(false)})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		got, err := env.posts.Get(ctx, pub.ID)
		require.NoError(t, err)
		assert.EqualValues(t, i, got.Views)
	}

	_, err = env.posts.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = env.posts.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)

	page, err := env.posts.List(ctx, auth.IdentityOf(author), 1, 10)
	require.NoError(t, err)
	for _, p := range page.Posts {
		if p.ID == draft.ID {
			assert.Zero(t, p.Views, "hidden reads must not count")
		}
	}
}

func TestPostService_LikeIsNotIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.author(t)
	p, err := env.posts.Create(ctx, author, CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	var likes int64
	for i := 0; i < 5; i++ {
		likes, err = env.posts.Like(ctx, p.ID)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 5, likes)

	_, err = env.posts.Like(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_UpdateCoalesces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.author(t)
	p, err := env.posts.Create(ctx, author, CreatePostInput{
		Title: "Title", Content: "Content", Tags: []string{"a", "b"}, FeaturedImage: "http://img",
	})
	require.NoError(t, err)

	got, err := env.posts.Update(ctx, p.ID, UpdatePostInput{Published: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, got.Published)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, "Content", got.Content)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.Equal(t, "http://img", got.FeaturedImage)
	assert.Equal(t, p.Excerpt, got.Excerpt)
	assert.Equal(t, author.ID, got.AuthorID)

	got, err = env.posts.Update(ctx, p.ID, UpdatePostInput{Title: "New", Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Empty(t, got.Tags)
	assert.False(t, got.Published, "published untouched when absent")

	_, err = env.posts.Update(ctx, p.ID, UpdatePostInput{Title: strings.Repeat("x", 201)})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = env.posts.Update(ctx, "missing", UpdatePostInput{Title: "x"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.author(t)
	p, err := env.posts.Create(ctx, author, CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, env.posts.Delete(ctx, p.ID))
	assert.ErrorIs(t, env.posts.Delete(ctx, p.ID), ErrPostNotFound)
	_, err = env.posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
