package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-blog/pkg/response"
)

// Recovery converts panics into a generic 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Recovered(c, fmt.Errorf("panic: %v", recovered))
	})
}
