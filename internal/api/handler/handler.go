package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// Pinger reports storage reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler HTTP 处理器集合
type Handler struct {
	postService service.PostService
	authService service.AuthService
	userService service.UserService
	db          Pinger
}

func NewHandler(posts service.PostService, authSvc service.AuthService, users service.UserService, db Pinger) *Handler {
	return &Handler{postService: posts, authService: authSvc, userService: users, db: db}
}

// fail 将业务错误映射为 HTTP 响应
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, service.ErrEmailTaken):
		response.BadRequest(c, "email already in use")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid credentials")
	case errors.Is(err, auth.ErrUnauthorized):
		response.Unauthorized(c, "unauthorized")
	case errors.Is(err, auth.ErrForbidden):
		response.Forbidden(c, "access denied")
	default:
		response.InternalError(c, err)
	}
}

// Health 存活检查
// @Summary 健康检查
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
