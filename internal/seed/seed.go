package seed

import (
	"context"
	"errors"
	"time"

	appModels "github.com/yaqubtawab/siwes-backend/internal/app/models"
	appRepos "github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	pkgAuth "github.com/yaqubtawab/siwes-backend/internal/pkg/auth"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// CreateDefaultData provisions demo accounts when the store is empty: one
// supervisor of each type, two students assigned to both, and an admin.
// Existing accounts are left untouched, so repeat startups are harmless.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories) error {
	logger.Info().Msg("Checking/Creating default data...")
	var finalErr error

	industryID, err := ensureUser(ctx, repos, &appModels.User{
		Email:        "i.supervisor@techcorp.ng",
		FirstName:    "Adaeze",
		LastName:     "Okonkwo",
		Role:         appModels.RoleSupervisorIndustry,
		Organization: "TechCorp Nigeria Ltd",
		IsActive:     true,
	}, "Supervisor123!")
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	schoolID, err := ensureUser(ctx, repos, &appModels.User{
		Email:      "s.supervisor@futminna.edu.ng",
		FirstName:  "Ibrahim",
		LastName:   "Musa",
		Role:       appModels.RoleSupervisorSchool,
		Department: "Computer Science",
		IsActive:   true,
	}, "Supervisor123!")
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if industryID > 0 && schoolID > 0 {
		students := []*appModels.User{
			{
				Email:                "y.tawab@st.futminna.edu.ng",
				FirstName:            "Yaqub",
				LastName:             "Tawab",
				Role:                 appModels.RoleStudent,
				MatricNo:             "CS/2019/031",
				Department:           "Computer Science",
				Level:                "400",
				Organization:         "TechCorp Nigeria Ltd",
				IndustrySupervisorID: &industryID,
				SchoolSupervisorID:   &schoolID,
				IsActive:             true,
			},
			{
				Email:                "f.bello@st.futminna.edu.ng",
				FirstName:            "Fatima",
				LastName:             "Bello",
				Role:                 appModels.RoleStudent,
				MatricNo:             "CS/2019/045",
				Department:           "Computer Science",
				Level:                "400",
				Organization:         "TechCorp Nigeria Ltd",
				IndustrySupervisorID: &industryID,
				SchoolSupervisorID:   &schoolID,
				IsActive:             true,
			},
		}

		for _, student := range students {
			studentID, err := ensureUser(ctx, repos, student, "Student123!")
			if err != nil {
				finalErr = errors.Join(finalErr, err)
				continue
			}
			if studentID > 0 {
				if _, err := repos.Clearance.GetOrCreate(ctx, studentID); err != nil {
					logger.Error().Err(err).Int64("studentID", studentID).Msg("Error provisioning clearance record")
					finalErr = errors.Join(finalErr, err)
				}
			}
		}
	}

	if _, err := ensureUser(ctx, repos, &appModels.User{
		Email:     "admin@futminna.edu.ng",
		FirstName: "System",
		LastName:  "Administrator",
		Role:      appModels.RoleSuperAdmin,
		IsActive:  true,
	}, "Admin123!"); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	logger.Info().Msg("Default data check/creation finished.")
	return finalErr
}

// ensureUser creates the account if no user with that email exists and
// returns the id either way
func ensureUser(ctx context.Context, repos *appRepos.Repositories, user *appModels.User, password string) (int64, error) {
	existing, err := repos.Users.GetByEmail(ctx, user.Email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		logger.Error().Err(err).Str("email", user.Email).Msg("Error checking for existing user")
		return 0, err
	}

	hashed, err := pkgAuth.HashPassword(password)
	if err != nil {
		logger.Error().Err(err).Str("email", user.Email).Msg("Error hashing seed password")
		return 0, err
	}
	user.Password = hashed
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	id, err := repos.Users.Create(ctx, user)
	if err != nil {
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating seed user")
		return 0, err
	}
	logger.Info().Int64("userID", id).Str("email", user.Email).Str("role", string(user.Role)).Msg("Seed user created")
	return id, nil
}
