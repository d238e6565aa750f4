package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// RegisterInput 注册参数（格式校验已在 handler 层完成）
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult token + 用户
type AuthResult struct {
	Token string
	User  *model.User
}

// AuthService 注册、登录与管理员引导
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	codec      *auth.TokenCodec
	isAdmin    func(email string) bool
	bcryptCost int
}

// NewAuthService builds the service. isAdmin decides the role granted on registration.
func NewAuthService(users repository.UserRepository, codec *auth.TokenCodec, isAdmin func(email string) bool, bcryptCost int) AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{users: users, codec: codec, isAdmin: isAdmin, bcryptCost: bcryptCost}
}

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)
	role := model.RoleUser
	if s.isAdmin(email) {
		role = model.RoleAdmin
	}
	u, err := s.createUser(ctx, strings.TrimSpace(in.Name), email, in.Password, role)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// EnsureAdmin 启动引导：账号不存在时创建管理员；已存在则不修改其角色
func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			logger.Warn("bootstrap admin email belongs to a non-admin account", zap.String("email", email))
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "Administrator"
	}
	u, err := s.createUser(ctx, name, email, password, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	logger.Info("bootstrap admin created", zap.String("email", email), zap.String("id", u.ID))
	return u, nil
}

func (s *authService) createUser(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	if len(password) > MaxPasswordBytes {
		verr := &ValidationError{}
		verr.add("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
		return nil, verr
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Name: name, Email: email, Password: string(hash), Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *authService) issue(u *model.User) (*AuthResult, error) {
	token, err := s.codec.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}
