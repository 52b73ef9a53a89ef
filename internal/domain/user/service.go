// internal/domain/user/service.go
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/shopsphere/internal/config"
	"github.com/your-org/shopsphere/internal/pkg/auth"
	"gorm.io/gorm"
)

// CartProvisioner creates the durable cart that belongs to a new user.
// Registration calls it right after the user row is created, so no
// authenticated user ever exists without exactly one cart.
type CartProvisioner interface {
	ProvisionForUser(ctx context.Context, userID uint) error
}

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	carts           CartProvisioner
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, carts CartProvisioner) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		carts:           carts,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new user account and provisions its cart
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	// Validate password confirmation
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	// Check if user already exists
	var existingUser User
	result := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		return nil, fmt.Errorf("user with this email already exists")
	}

	// Hash password
	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create new user
	newUser := User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
		IsAdmin:   false,
	}

	if err := s.db.WithContext(ctx).Create(&newUser).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Every account gets its cart at creation time, not lazily on first use
	if err := s.carts.ProvisionForUser(ctx, newUser.ID); err != nil {
		return nil, fmt.Errorf("failed to provision cart for user %d: %w", newUser.ID, err)
	}

	// Generate tokens
	accessToken, err := s.jwtManager.GenerateAccessToken(newUser.ID, newUser.Email, newUser.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(newUser.ID, newUser.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Clear password from response
	newUser.Password = ""

	return &AuthResponse{
		User:         &newUser,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// Login authenticates a user and returns tokens
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var account User
	result := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&account)
	if result.Error != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if !account.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	if err := s.passwordManager.VerifyPassword(account.Password, req.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	account.LastLoginAt = &now
	s.db.WithContext(ctx).Model(&account).UpdateColumn("last_login_at", now)

	account.Password = ""

	return &AuthResponse{
		User:         &account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetProfile retrieves a user's profile by ID
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	var account User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	account.Password = ""
	return &account, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	account, err := s.GetProfile(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if !account.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         account,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
