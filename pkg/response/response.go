package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// MsgInternal is the only message a 500 response ever carries.
const MsgInternal = "internal server error"

// Success 200，payload 字段平铺到顶层并附带 success=true
func Success(c *gin.Context, payload gin.H) {
	write(c, http.StatusOK, payload)
}

// Created 201
func Created(c *gin.Context, payload gin.H) {
	write(c, http.StatusCreated, payload)
}

func write(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func BadRequest(c *gin.Context, msg string) {
	Message(c, http.StatusBadRequest, msg)
}

// ValidationFailed 400 {errors:[...]}
func ValidationFailed(c *gin.Context, errs any) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": errs})
}

func Unauthorized(c *gin.Context, msg string) {
	Message(c, http.StatusUnauthorized, msg)
}

func Forbidden(c *gin.Context, msg string) {
	Message(c, http.StatusForbidden, msg)
}

func NotFound(c *gin.Context, msg string) {
	Message(c, http.StatusNotFound, msg)
}

// InternalError 记录错误并上报 Sentry，响应中不暴露细节
func InternalError(c *gin.Context, err error) {
	internalError(c, err, true)
}

// Recovered writes the 500 for a recovered panic. When the sentrygin
// middleware is mounted it has already reported the panic, so it is only logged.
func Recovered(c *gin.Context, err error) {
	internalError(c, err, sentrygin.GetHubFromContext(c) == nil)
}

func internalError(c *gin.Context, err error, report bool) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if report {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else if hub := sentry.CurrentHub(); hub.Client() != nil {
			hub.CaptureException(err)
		}
	}
	Message(c, http.StatusInternalServerError, MsgInternal)
}

// Message writes {message} with status and aborts the chain.
func Message(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
