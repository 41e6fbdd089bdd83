package dto

import "github.com/yaqubtawab/siwes-backend/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int    `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterRequest represents a student registration request. Supervisor and
// admin accounts are provisioned out of band (seed or admin tooling).
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"firstName" binding:"required"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName" binding:"required"`
	MatricNo   string `json:"matricNo" binding:"required"`
	Department string `json:"department" binding:"required"`
	Level      string `json:"level" binding:"required"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID                   int64           `json:"id"`
	Email                string          `json:"email"`
	FirstName            string          `json:"firstName"`
	MiddleName           string          `json:"middleName,omitempty"`
	LastName             string          `json:"lastName"`
	Role                 models.RoleType `json:"role"`
	MatricNo             string          `json:"matricNo,omitempty"`
	Department           string          `json:"department,omitempty"`
	Level                string          `json:"level,omitempty"`
	Organization         string          `json:"organization,omitempty"`
	IndustrySupervisorID *int64          `json:"industrySupervisorId,omitempty"`
	SchoolSupervisorID   *int64          `json:"schoolSupervisorId,omitempty"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// ToUserResponse converts a user model to its response DTO
func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Email:                u.Email,
		FirstName:            u.FirstName,
		MiddleName:           u.MiddleName,
		LastName:             u.LastName,
		Role:                 u.Role,
		MatricNo:             u.MatricNo,
		Department:           u.Department,
		Level:                u.Level,
		Organization:         u.Organization,
		IndustrySupervisorID: u.IndustrySupervisorID,
		SchoolSupervisorID:   u.SchoolSupervisorID,
	}
}
