package service

import (
	"context"
	"errors"
	"time"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
	"rentalshop-backend/internal/security"
)

type authService struct {
	userRepo     repository.UserRepository
	tokenManager security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokenManager security.TokenManager) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, *domain.User, error) {
	logger.EnterMethod("authService.Login", "username", username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Login failed: unknown user", "username", username)
			return "", time.Time{}, nil, domain.ErrInvalidCredentials
		}
		return "", time.Time{}, nil, err
	}

	ok, err := security.CheckPassword(user.PasswordHash, password)
	if err != nil {
		logger.Error("Stored password hash unusable", "userID", user.ID, "error", err)
		return "", time.Time{}, nil, domain.ErrInvalidCredentials
	}
	if !ok {
		logger.Warn("Login failed: wrong password", "userID", user.ID)
		return "", time.Time{}, nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenManager.GenerateAccessToken(user)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err)
		return "", time.Time{}, nil, err
	}

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return token, expiresAt, user, nil
}
