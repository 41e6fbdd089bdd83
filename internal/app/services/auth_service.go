package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/yaqubtawab/siwes-backend/internal/pkg/auth"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/validation"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register creates a student account and its initial clearance record
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo         repositories.UserRepository
	tokenRepo        repositories.TokenRepository
	clearanceService ClearanceService
	jwtService       *pkgauth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	clearanceService ClearanceService,
	jwtService *pkgauth.JWTService,
) AuthService {
	return &authServiceImpl{
		userRepo:         userRepo,
		tokenRepo:        tokenRepo,
		clearanceService: clearanceService,
		jwtService:       jwtService,
	}
}

// Register creates a student account. Supervisors and admins are provisioned
// out of band, never through this endpoint.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.CompiledPatterns.Email.MatchString(email) {
		return nil, apperrors.NewValidationError("invalid email format")
	}
	if len(req.Password) < validation.PasswordMinLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
	}
	matricNo := strings.ToUpper(strings.TrimSpace(req.MatricNo))
	if !validation.CompiledPatterns.MatricNo.MatchString(matricNo) {
		return nil, apperrors.NewValidationError("invalid matric number format")
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:      email,
		Password:   hashed,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Role:       models.RoleStudent,
		MatricNo:   matricNo,
		Department: req.Department,
		Level:      req.Level,
		IsActive:   true,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	// The clearance form exists from day one so dashboards never special-case
	// its absence. Registration still succeeds if this fails.
	if err := s.clearanceService.EnsureRecord(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("studentID", id).Msg("Could not provision initial clearance record")
	}

	logger.Info().Int64("userID", id).Str("matricNo", user.MatricNo).Msg("Student registered")
	return s.issueTokens(ctx, user)
}

// Login verifies credentials and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same error as a wrong password; login never reveals whether
			// the account exists.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkgauth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Could not record last login")
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token into a fresh token pair
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetUserID(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	// Rotation: the used token is gone before the new pair is issued
	if err := s.tokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp.Token, nil
}

// Logout revokes a refresh token
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Delete(ctx, refreshToken)
}

// Me returns the profile of the authenticated user
func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// issueTokens generates and persists a token pair for the user
func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokenRepo.Save(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             expiresIn,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresIn,
		},
		User: dto.ToUserResponse(user),
	}, nil
}
