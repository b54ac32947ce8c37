package service

import (
	"context"
	"fmt"

	"cavea/internal/models"
	"cavea/internal/repository"
)

type UserService interface {
	Update(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type UpdateUserInput struct {
	Name      *string
	Firstname *string
}

type userService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
}

func NewUserService(users repository.UserRepository, tokens repository.TokenRepository) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) Update(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Firstname != nil {
		user.Firstname = *input.Firstname
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes the account together with its live tokens.
func (s *userService) Delete(ctx context.Context, id uint) error {
	if err := s.tokens.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return s.users.Delete(ctx, id)
}
