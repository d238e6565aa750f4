package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/repository"
)

const (
	DefaultPage      = 1
	DefaultListLimit = 10

	listOrder = "created_at DESC"
)

// Pagination 分页信息
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// ParsePagination reads raw query values; anything non-numeric or non-positive falls back to the defaults.
func ParsePagination(pageRaw, limitRaw string, defLimit int) (page, limit int) {
	page = parsePositive(pageRaw, DefaultPage)
	limit = parsePositive(limitRaw, defLimit)
	return page, limit
}

func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// BuildListQuery 构造列表查询：管理员可见全部，其余仅可见已发布；按创建时间倒序
func BuildListQuery(id auth.Identity, page, limit int) repository.PostListQuery {
	page, limit = normalizePage(page, limit)
	return repository.PostListQuery{
		PublishedOnly: !auth.IsAdmin(id),
		OrderBy:       listOrder,
		Offset:        (page - 1) * limit,
		Limit:         limit,
	}
}

// NewPagination computes pages = ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = normalizePage(page, limit)
	return Pagination{
		Current: page,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
		Total:   total,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultListLimit
	}
	return page, limit
}
