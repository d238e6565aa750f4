package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
)

// UserListLimit caps GET /users.
const UserListLimit = 10

type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx, UserListLimit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
