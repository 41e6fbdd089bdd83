package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	pkgauth "github.com/yaqubtawab/siwes-backend/internal/pkg/auth"
)

func registerRequest(email, matricNo string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:      email,
		Password:   "correct-horse-battery",
		FirstName:  "Fatima",
		LastName:   "Bello",
		MatricNo:   matricNo,
		Department: "Computer Science",
		Level:      "400",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	resp, err := env.auth.Register(ctx, registerRequest("F.Bello@st.futminna.edu.ng", "cs/2019/045"))
	require.NoError(t, err)

	assert.Equal(t, "f.bello@st.futminna.edu.ng", resp.User.Email, "email is normalized to lower case")
	assert.Equal(t, "CS/2019/045", resp.User.MatricNo, "matric number is normalized to upper case")
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)

	// Registration provisions the clearance record up front
	record, err := env.repos.Clearance.GetByStudent(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClearanceNotCleared, record.Status)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name    string
		mutate  func(*dto.RegisterRequest)
		wantErr error
	}{
		{
			name:    "malformed email",
			mutate:  func(r *dto.RegisterRequest) { r.Email = "not-an-email" },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "short password",
			mutate:  func(r *dto.RegisterRequest) { r.Password = "short" },
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "malformed matric number",
			mutate:  func(r *dto.RegisterRequest) { r.MatricNo = "2019-CS-045" },
			wantErr: apperrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest("valid@st.futminna.edu.ng", "CS/2019/045")
			tt.mutate(req)
			_, err := env.auth.Register(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.auth.Register(ctx, registerRequest("dup@st.futminna.edu.ng", "CS/2019/100"))
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, registerRequest("dup@st.futminna.edu.ng", "CS/2019/101"))
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = env.auth.Register(ctx, registerRequest("other@st.futminna.edu.ng", "CS/2019/100"))
	assert.ErrorIs(t, err, apperrors.ErrMatricNoExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.auth.Register(ctx, registerRequest("login@st.futminna.edu.ng", "CS/2019/200"))
	require.NoError(t, err)

	resp, err := env.auth.Login(ctx, &dto.LoginRequest{
		Email:    "Login@st.futminna.edu.ng",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, "login@st.futminna.edu.ng", resp.User.Email)

	// Wrong password and unknown account fail identically
	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    "login@st.futminna.edu.ng",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    "nobody@st.futminna.edu.ng",
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	hashed, err := pkgauth.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	_, err = env.repos.Users.Create(ctx, &models.User{
		Email:     "disabled@st.futminna.edu.ng",
		Password:  hashed,
		FirstName: "Former",
		LastName:  "Student",
		Role:      models.RoleStudent,
		MatricNo:  "CS/2015/001",
		IsActive:  false,
	})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    "disabled@st.futminna.edu.ng",
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshTokenRotation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	registered, err := env.auth.Register(ctx, registerRequest("rotate@st.futminna.edu.ng", "CS/2019/300"))
	require.NoError(t, err)
	original := registered.Token.RefreshToken

	refreshed, err := env.auth.RefreshToken(ctx, original)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.NotEqual(t, original, refreshed.RefreshToken)

	// The used token is revoked by the rotation
	_, err = env.auth.RefreshToken(ctx, original)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	registered, err := env.auth.Register(ctx, registerRequest("logout@st.futminna.edu.ng", "CS/2019/400"))
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, registered.Token.RefreshToken))

	_, err = env.auth.RefreshToken(ctx, registered.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	registered, err := env.auth.Register(ctx, registerRequest("me@st.futminna.edu.ng", "CS/2019/500"))
	require.NoError(t, err)

	profile, err := env.auth.Me(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, profile.ID)
	assert.Equal(t, "me@st.futminna.edu.ng", profile.Email)

	_, err = env.auth.Me(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
