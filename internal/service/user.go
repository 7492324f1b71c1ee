package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fileshare/internal/model"
	"fileshare/internal/pkg/auth"
	"fileshare/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
	sessions repository.SessionCacheRepository // optional, nil without redis
	authn    *auth.Authenticator
}

func NewUserService(userRepo repository.UserRepository, sessions repository.SessionCacheRepository, authn *auth.Authenticator) UserService {
	return &userService{userRepo: userRepo, sessions: sessions, authn: authn}
}

// Register creates a free-tier account. It deliberately does not issue
// a session token: the client is expected to log in explicitly after
// registering.
func (s *userService) Register(name, email, password string) (*model.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	exists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Plan:         model.PlanFree,
	}
	user.EnsureDefaults()

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) Login(email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.authn.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// Logout revokes the token for the rest of its lifetime. Without a
// session cache the token simply ages out client-side.
func (s *userService) Logout(ctx context.Context, token string) error {
	if s.sessions == nil {
		return nil
	}

	claims, err := s.authn.ValidateToken(token)
	if err != nil {
		return nil // already unusable
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	return s.sessions.BlockToken(ctx, token, ttl)
}

func (s *userService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}
	return s.userRepo.FindByID(id)
}

func (s *userService) UpgradeAccount(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	user.Plan = model.PlanPro
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) UpdatePreferences(userID uint, sortBy, view string) (*model.User, error) {
	if !ValidSortKey(sortBy) {
		return nil, fmt.Errorf("%w: unknown sort key %q", ErrValidation, sortBy)
	}
	if !ValidViewMode(view) {
		return nil, fmt.Errorf("%w: unknown view mode %q", ErrValidation, view)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	user.SortBy = sortBy
	user.View = view
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}
