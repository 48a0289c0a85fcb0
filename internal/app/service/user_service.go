package service

import (
	"context"
	"errors"
	"fmt"

	"messagely/internal/common"
	"messagely/internal/domain/model"
	"messagely/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListAll(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
