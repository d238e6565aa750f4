package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

// Authenticate 解析 Authorization 头并把身份写入上下文。
// Strict 模式下凭证缺失或无效返回 401；Soft 模式降级为匿名继续处理。
func Authenticate(r *auth.Resolver, mode auth.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := r.Resolve(c.Request.Context(), c.GetHeader("Authorization"), mode)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				response.Unauthorized(c, unauthorizedMessage(c))
				return
			}
			response.InternalError(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func unauthorizedMessage(c *gin.Context) string {
	if auth.BearerToken(c.GetHeader("Authorization")) == "" {
		return "token not provided"
	}
	return "invalid token"
}

// RequireRole 必须挂在 Strict 认证之后
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireRole(Identity(c), role); err != nil {
			response.Forbidden(c, "access denied: "+string(role)+" role required")
			return
		}
		c.Next()
	}
}

// Identity returns the identity resolved earlier in the chain, Anonymous when none ran.
func Identity(c *gin.Context) auth.Identity {
	return auth.FromContext(c.Request.Context())
}
