package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
)

type AuthService struct {
	userRepo repositories.UserRepositoryImpl
}

func NewAuthService(userRepo repositories.UserRepositoryImpl) *AuthService {
	return &AuthService{userRepo: userRepo}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleCustomer
	}
	user := &models.User{Name: strings.TrimSpace(name), Email: email, Password: hash, Role: role}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(password)) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) FindUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}
