package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/tx"
	"vyapari/internal/domain/org"
	"vyapari/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts   int
	LockDuration       time.Duration
	PasswordMinLength  int
	RefreshTokenExpiry time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:   5,
		LockDuration:       15 * time.Minute,
		PasswordMinLength:  8,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
}

// Service provides signup, login and token refresh.
type Service struct {
	userRepo   UserRepository
	tokenRepo  TokenRepository
	orgs       *org.Service
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	orgs *org.Service,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		orgs:       orgs,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
	}
}

// SignupRequest registers a new shop with its owner account.
type SignupRequest struct {
	ShopName string
	Email    string
	Password string
	Name     string
	Timezone string
}

// Signup creates the organization and its owner user as one atomic unit.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, *org.Organization, error) {
	if req.ShopName == "" {
		return nil, nil, apperror.NewValidation("shop name is required").WithDetail("field", "shopName")
	}
	if err := s.validateCredentials(req.Email, req.Password); err != nil {
		return nil, nil, err
	}

	exists, err := s.userRepo.Exists(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, nil, apperror.NewConflict("email already registered").WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	var user *User
	var organization *org.Organization
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		organization, err = s.orgs.Create(ctx, org.CreateInput{
			Name:     req.ShopName,
			Timezone: req.Timezone,
		})
		if err != nil {
			return err
		}

		user = NewUser(organization.ID, req.Email, string(passwordHash), RoleOwner)
		user.Name = req.Name
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "shop registered",
		"org_id", organization.ID,
		"user_id", user.ID,
		"email", user.Email,
	)
	return user, organization, nil
}

// AddUser registers a staff account within an existing organization.
func (s *Service) AddUser(ctx context.Context, orgID id.ID, email, password, name string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, apperror.NewValidation("unknown role").WithDetail("role", string(role))
	}
	if err := s.validateCredentials(email, password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(orgID, email, string(passwordHash), role)
	user.Name = name
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user added", "user_id", user.ID, "org_id", orgID, "role", role)
	return user, nil
}

// Login authenticates a user and returns tokens.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, *User, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		_ = s.userRepo.Update(ctx, user)
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	user.RecordSuccessfulLogin()
	_ = s.userRepo.Update(ctx, user)

	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)
	return tokens, user, nil
}

// RefreshToken rotates a refresh token into a new token pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	token, err := s.tokenRepo.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid refresh token")
	}
	if !token.IsValid() {
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("user not found")
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	_ = s.tokenRepo.RevokeRefreshToken(ctx, token.ID, "refreshed")
	return s.generateTokenPair(ctx, user)
}

// Logout revokes all of the user's refresh tokens.
func (s *Service) Logout(ctx context.Context, userID id.ID) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID, "logout")
}

// GetUserByID retrieves a user.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ListUsers lists the organization's accounts.
func (s *Service) ListUsers(ctx context.Context, orgID id.ID) ([]User, error) {
	return s.userRepo.ListByOrg(ctx, orgID)
}

func (s *Service) validateCredentials(email, password string) error {
	if email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(password) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	return nil
}

// generateTokenPair creates access and refresh tokens.
func (s *Service) generateTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshTokenRaw, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// hashToken creates a SHA256 hash of the token.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// generateRandomToken generates a random token string.
func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
