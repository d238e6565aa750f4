package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/response"
)

var registerOnce sync.Once

// RegisterValidation makes validator report json field names instead of Go field names.
func RegisterValidation() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(f reflect.StructField) string {
				name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name == "" {
					return f.Name
				}
				return name
			})
		}
	})
}

// fieldCheck reports violations that binding tags cannot express.
type fieldCheck func() []service.FieldError

// bindJSON 绑定并校验请求体；失败时已写出 400 响应。
// 标签校验失败时仍会执行 checks，合并后一次性返回全部字段错误。
func bindJSON(c *gin.Context, dst any, checks ...fieldCheck) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.BadRequest(c, "invalid request body")
		return false
	}
	fields := fieldErrors(verrs)
	for _, check := range checks {
		fields = mergeFields(fields, check())
	}
	response.ValidationFailed(c, fields)
	return false
}

// mergeFields appends extra entries for fields not already reported.
func mergeFields(fields, extra []service.FieldError) []service.FieldError {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f.Field] = true
	}
	for _, f := range extra {
		if !seen[f.Field] {
			seen[f.Field] = true
			fields = append(fields, f)
		}
	}
	return fields
}

func fieldErrors(verrs validator.ValidationErrors) []service.FieldError {
	out := make([]service.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, service.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "invalid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
