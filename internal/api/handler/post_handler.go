package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

type createPostRequest struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt" binding:"max=300"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage"`
	// only a JSON boolean is honoured
	Published any `json:"published"`
}

func (r createPostRequest) input() service.CreatePostInput {
	return service.CreatePostInput{
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		Tags:          r.Tags,
		FeaturedImage: r.FeaturedImage,
		Published:     explicitBool(r.Published),
	}
}

type updatePostRequest struct {
	Title         string   `json:"title" binding:"max=200"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt" binding:"max=300"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage"`
	Published     any      `json:"published"`
}

func explicitBool(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}

// ListPosts 博文列表
// @Summary 博文列表（管理员可见草稿）
// @Tags posts
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} map[string]interface{}
// @Router /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	page, limit := service.ParsePagination(c.Query("page"), c.Query("limit"), service.DefaultListLimit)
	res, err := h.postService.List(c.Request.Context(), middleware.Identity(c), page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"posts": toPostViews(res.Posts), "pagination": res.Pagination})
}

// GetPost 单篇博文（浏览数 +1）
// @Summary 获取博文
// @Tags posts
// @Produce json
// @Param id path string true "博文ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"post": toPostView(p)})
}

// CreatePost 创建博文
// @Summary 创建博文
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "博文"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	author, ok := auth.UserOf(middleware.Identity(c))
	if !ok {
		h.fail(c, auth.ErrUnauthorized)
		return
	}
	var req createPostRequest
	if !bindJSON(c, &req, func() []service.FieldError { return req.input().Violations() }) {
		return
	}
	p, err := h.postService.Create(c.Request.Context(), author, req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, gin.H{"post": toPostView(p), "message": "post created"})
}

// UpdatePost 部分更新博文
// @Summary 更新博文
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "博文ID"
// @Param request body updatePostRequest true "需要修改的字段"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req updatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.postService.Update(c.Request.Context(), c.Param("id"), service.UpdatePostInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Published:     explicitBool(req.Published),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"post": toPostView(p), "message": "post updated"})
}

// DeletePost 删除博文（物理删除）
// @Summary 删除博文
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "博文ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"message": "post deleted"})
}

// LikePost 点赞
// @Summary 点赞（不去重）
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "博文ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	likes, err := h.postService.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"likes": likes, "message": "post liked"})
}
