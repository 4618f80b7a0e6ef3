package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/utils"
	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthInactiveUser       = errors.New("user account is disabled")
	ErrPasswordTooShort       = fmt.Errorf("password must be at least %d characters", utils.MinPasswordLength)
	ErrInvalidEmail           = errors.New("email address is invalid")
	ErrNameRequired           = errors.New("first name is required")
)

// JWT claim names shared with the authentication middleware.
const (
	ClaimUserID = "user_id"
	ClaimStaff  = "staff"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
	ObtainToken(ctx context.Context, input LoginInput) (*models.APIToken, error)
	RevokeToken(ctx context.Context, userID int) error
	ChangePassword(ctx context.Context, userID int, input ChangePasswordInput) error
	UserForToken(ctx context.Context, key string) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
}

type RegisterInput struct {
	FirstName string `json:"first_name" validate:"required,notblank,max=30"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	jwtTTL    time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, jwtTTL time.Duration, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < utils.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		FirstName:    utils.TitleName(firstName),
		LastName:     utils.TitleName(input.LastName),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.Int("user_id", user.ID))
	return user, nil
}

func (s *authService) authenticate(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrAuthInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAuthInactiveUser
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	claims := jwt.MapClaims{
		ClaimUserID: user.ID,
		ClaimStaff:  user.IsStaff,
		"exp":       now.Add(s.jwtTTL).Unix(),
		"iat":       now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return user, token, nil
}

// ObtainToken returns the user's API token, creating it on first use.
func (s *authService) ObtainToken(ctx context.Context, input LoginInput) (*models.APIToken, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}

	token, err := s.userRepo.GetTokenByUser(ctx, user.ID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, repositories.ErrTokenNotFound) {
		return nil, fmt.Errorf("failed to load api token: %w", err)
	}

	key, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, err
	}
	token = &models.APIToken{Key: key, UserID: user.ID}
	if err := s.userRepo.CreateToken(ctx, token); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "api token issued", slog.Int("user_id", user.ID))
	return token, nil
}

func (s *authService) RevokeToken(ctx context.Context, userID int) error {
	if err := s.userRepo.DeleteToken(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to revoke api token: %w", err)
	}
	s.logger.InfoContext(ctx, "api token revoked", slog.Int("user_id", userID))
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int, input ChangePasswordInput) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(input.CurrentPassword, user.PasswordHash) {
		return ErrAuthInvalidCredentials
	}
	if len(input.NewPassword) < utils.MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) UserForToken(ctx context.Context, key string) (*models.User, error) {
	user, err := s.userRepo.GetUserByToken(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to resolve api token: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAuthInactiveUser
	}
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}
