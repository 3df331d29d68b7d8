package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/journalapp/journal-server/internal/auth"
	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
	"github.com/journalapp/journal-server/internal/id"
	"github.com/journalapp/journal-server/internal/store"
)

// AuthService handles signup, login, token refresh, and logout.
// Session bookkeeping is delegated to SessionService.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	journals       *JournalService
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	journals *JournalService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		journals:       journals,
		logger:         logger,
	}
}

// SignupRequest contains new account data.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	FirstName string `json:"first_name" validate:"required,max=100,nospace"`
	LastName  string `json:"last_name" validate:"required,max=100,nospace"`
	Username  string `json:"username,omitempty" validate:"max=40,nospace"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Signup creates an account, provisions its default journal, and logs it in.
// A failure while provisioning the journal is logged and does not fail signup.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest, client ClientInfo) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	username := req.Username
	if username == "" {
		suffix, err := id.Letters(4)
		if err != nil {
			return nil, err
		}
		username = req.FirstName + suffix
	}

	user := &domain.User{
		Email:        domain.NormalizeEmail(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if _, err := s.journals.CreateDefaultJournal(ctx, user.ID); err != nil && s.logger != nil {
		s.logger.Warn("default journal not created",
			"user_id", user.ID,
			"error", err,
		)
	}

	session, err := s.sessionService.CreateSession(ctx, user, client)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user signed up", "user_id", user.ID, "email", user.Email)
	}

	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// Login verifies credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if !user.IsActive {
		return nil, domainerrors.Unauthorized("account is disabled")
	}

	now := time.Now()
	if err := s.store.TouchUserLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &now

	session, err := s.sessionService.CreateSession(ctx, user, client)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// Refresh rotates a refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, domainerrors.Validation("refresh_token is required")
	}
	session, user, err := s.sessionService.RefreshSession(ctx, refreshToken, client)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken checks the token, its session, and the account behind it.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired access token").WithCause(err)
	}

	if claims.SessionID != "" {
		if _, err := s.sessionService.GetSession(ctx, claims.SessionID); err != nil {
			return nil, nil, err
		}
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("user no longer exists").WithCause(err)
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, nil, domainerrors.Unauthorized("account is disabled")
	}

	return user, claims, nil
}
