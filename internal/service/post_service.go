package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
)

const autoExcerptLen = 150

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// CreatePostInput 创建参数；Published 为 nil 时默认发布
type CreatePostInput struct {
	Title         string
	Content       string
	Excerpt       string
	Tags          []string
	FeaturedImage string
	Published     *bool
}

// Violations lists every broken field constraint of in, nil when valid.
func (in CreatePostInput) Violations() []FieldError {
	verr := &ValidationError{}
	validateTitle(verr, strings.TrimSpace(in.Title), true)
	if strings.TrimSpace(in.Content) == "" {
		verr.add("content", "content is required")
	}
	validateExcerpt(verr, in.Excerpt)
	return verr.Fields
}

// UpdatePostInput 部分更新：空字符串与 nil 表示保留原值
type UpdatePostInput struct {
	Title         string
	Content       string
	Excerpt       string
	Tags          []string
	FeaturedImage string
	Published     *bool
}

// PostPage 列表结果
type PostPage struct {
	Posts      []*model.Post
	Pagination Pagination
}

// PostService 博文服务
type PostService interface {
	List(ctx context.Context, id auth.Identity, page, limit int) (*PostPage, error)
	Get(ctx context.Context, postID string) (*model.Post, error)
	Create(ctx context.Context, author *model.User, in CreatePostInput) (*model.Post, error)
	Update(ctx context.Context, postID string, in UpdatePostInput) (*model.Post, error)
	Delete(ctx context.Context, postID string) error
	Like(ctx context.Context, postID string) (int64, error)
}

type postService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) PostService {
	return &postService{posts: posts}
}

func (s *postService) List(ctx context.Context, id auth.Identity, page, limit int) (*PostPage, error) {
	q := BuildListQuery(id, page, limit)
	items, total, err := s.posts.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return &PostPage{Posts: items, Pagination: NewPagination(page, limit, total)}, nil
}

// Get 读取单篇已发布博文并把浏览数 +1。
// 未发布的博文对任何调用方（包括管理员）都视为不存在。
func (s *postService) Get(ctx context.Context, postID string) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if !p.Published {
		return nil, ErrPostNotFound
	}
	if err := s.posts.IncrementViews(ctx, postID); err != nil {
		return nil, s.mapErr(err)
	}
	p.Views++
	return p, nil
}

func (s *postService) Create(ctx context.Context, author *model.User, in CreatePostInput) (*model.Post, error) {
	if author == nil {
		return nil, errors.New("create post: nil author")
	}
	verr := &ValidationError{Fields: in.Violations()}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)

	published := true
	if in.Published != nil {
		published = *in.Published
	}
	excerpt := strings.TrimSpace(in.Excerpt)
	if excerpt == "" {
		excerpt = MakeExcerpt(in.Content)
	}

	p := &model.Post{
		Title:         title,
		Content:       in.Content,
		Excerpt:       excerpt,
		AuthorID:      author.ID,
		Tags:          NormalizeTags(in.Tags),
		FeaturedImage: strings.TrimSpace(in.FeaturedImage),
		Published:     published,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.reload(ctx, p.ID)
}

func (s *postService) Update(ctx context.Context, postID string, in UpdatePostInput) (*model.Post, error) {
	title := strings.TrimSpace(in.Title)
	verr := &ValidationError{}
	validateTitle(verr, title, false)
	validateExcerpt(verr, in.Excerpt)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, s.mapErr(err)
	}

	if title != "" {
		p.Title = title
	}
	if in.Content != "" {
		p.Content = in.Content
	}
	if e := strings.TrimSpace(in.Excerpt); e != "" {
		p.Excerpt = e
	}
	if in.Tags != nil {
		p.Tags = NormalizeTags(in.Tags)
	}
	if img := strings.TrimSpace(in.FeaturedImage); img != "" {
		p.FeaturedImage = img
	}
	if in.Published != nil {
		p.Published = *in.Published
	}

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, s.mapErr(err)
	}
	return s.reload(ctx, p.ID)
}

func (s *postService) Delete(ctx context.Context, postID string) error {
	if err := s.posts.Delete(ctx, postID); err != nil {
		return s.mapErr(err)
	}
	return nil
}

// Like 点赞数 +1；不做按用户去重
func (s *postService) Like(ctx context.Context, postID string) (int64, error) {
	likes, err := s.posts.IncrementLikes(ctx, postID)
	if err != nil {
		return 0, s.mapErr(err)
	}
	return likes, nil
}

func (s *postService) reload(ctx context.Context, postID string) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return p, nil
}

func (s *postService) mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}

func validateTitle(verr *ValidationError, title string, required bool) {
	n := utf8.RuneCountInString(title)
	if required && n == 0 {
		verr.add("title", fmt.Sprintf("title must be between 1 and %d characters", model.TitleMaxLen))
		return
	}
	if n > model.TitleMaxLen {
		verr.add("title", fmt.Sprintf("title must be between 1 and %d characters", model.TitleMaxLen))
	}
}

func validateExcerpt(verr *ValidationError, excerpt string) {
	if utf8.RuneCountInString(strings.TrimSpace(excerpt)) > model.ExcerptMaxLen {
		verr.add("excerpt", fmt.Sprintf("excerpt must be at most %d characters", model.ExcerptMaxLen))
	}
}

// MakeExcerpt strips HTML tags and keeps the first 150 characters followed by "...".
func MakeExcerpt(content string) string {
	text := htmlTag.ReplaceAllString(content, "")
	runes := []rune(text)
	if len(runes) > autoExcerptLen {
		runes = runes[:autoExcerptLen]
	}
	return string(runes) + "..."
}

// NormalizeTags trims and lowercases tags, dropping empty entries; order is kept.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
