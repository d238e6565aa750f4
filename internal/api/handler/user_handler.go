package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/pkg/response"
)

// ListUsers 用户列表（最多 10 条，不含密码）
// @Summary 用户列表
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"users": toUserViews(users)})
}
