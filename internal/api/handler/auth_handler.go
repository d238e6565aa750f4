package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 注册
// @Summary 注册用户
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, gin.H{"token": res.Token, "user": toUserView(res.User)})
}

// Login 登录
// @Summary 登录
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authService.Login(c.Request.Context(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"token": res.Token, "user": toUserView(res.User)})
}

// Profile 当前用户
// @Summary 当前用户信息
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	u, ok := auth.UserOf(middleware.Identity(c))
	if !ok {
		h.fail(c, auth.ErrUnauthorized)
		return
	}
	response.Success(c, gin.H{"user": toUserView(u)})
}
