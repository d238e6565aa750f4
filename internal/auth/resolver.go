package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// Mode 身份解析模式
type Mode int

const (
	// Strict rejects missing or unusable credentials with ErrUnauthorized.
	Strict Mode = iota + 1
	// Soft downgrades missing or unusable credentials to Anonymous.
	Soft
)

// UserFinder loads users by id.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Resolver 将 Authorization 头解析为 Identity
type Resolver struct {
	codec    *TokenCodec
	users    UserFinder
	notFound error
}

// NewResolver builds a resolver; notFound is the sentinel users returns for unknown ids.
func NewResolver(codec *TokenCodec, users UserFinder, notFound error) *Resolver {
	return &Resolver{codec: codec, users: users, notFound: notFound}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// Resolve maps header to an identity.
// Strict: missing, invalid, expired or orphaned credentials return ErrUnauthorized.
// Soft: the same cases return Anonymous with a nil error.
// Storage failures are returned as-is in both modes.
func (r *Resolver) Resolve(ctx context.Context, header string, mode Mode) (Identity, error) {
	token := BearerToken(header)
	if token == "" {
		if mode == Soft {
			return Anonymous{}, nil
		}
		return nil, fmt.Errorf("%w: token not provided", ErrUnauthorized)
	}

	userID, err := r.codec.Verify(token)
	if err != nil {
		return r.reject(mode, err)
	}

	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if r.notFound != nil && errors.Is(err, r.notFound) {
			return r.reject(mode, fmt.Errorf("unknown user %s", userID))
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return IdentityOf(u), nil
}

func (r *Resolver) reject(mode Mode, cause error) (Identity, error) {
	if mode == Soft {
		logger.Debug("soft auth ignored credential", zap.Error(cause))
		return Anonymous{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnauthorized, cause)
}
