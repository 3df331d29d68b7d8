package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/journalapp/journal-server/internal/auth"
	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
	"github.com/journalapp/journal-server/internal/store"
)

// UserService reads accounts and creates superusers for the admin CLI.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// CreateSuperuserRequest contains the data for a superuser account.
type CreateSuperuserRequest struct {
	Email     string `validate:"required,email,max=255"`
	Password  string `validate:"required,min=8,max=1024"`
	FirstName string `validate:"max=100,nospace"`
	LastName  string `validate:"max=100,nospace"`
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "user not found")
	}
	return user, nil
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.store.ListUsers(ctx)
}

// CreateSuperuser creates a staff superuser. Superusers own the global tags.
func (s *UserService) CreateSuperuser(ctx context.Context, req CreateSuperuserRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        domain.NormalizeEmail(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.FirstName,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create superuser: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("superuser created", "user_id", user.ID, "email", user.Email)
	}
	return user, nil
}
