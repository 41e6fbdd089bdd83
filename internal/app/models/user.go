package models

import (
	"time"
)

// User defines the account model based on the 'users' table. Students carry
// the profile and supervisor assignment columns; supervisors and admins leave
// them NULL.
type User struct {
	ID                   int64      `json:"id" db:"id" example:"1"`
	Email                string     `json:"email" db:"email" example:"y.tawab@st.futminna.edu.ng"`
	Password             string     `json:"-" db:"password"`
	FirstName            string     `json:"firstName" db:"first_name" example:"Yaqub"`
	MiddleName           string     `json:"middleName,omitempty" db:"middle_name"`
	LastName             string     `json:"lastName" db:"last_name" example:"Tawab"`
	Role                 RoleType   `json:"role" db:"role" example:"student"`
	MatricNo             string     `json:"matricNo,omitempty" db:"matric_no" example:"CS/2019/031"`
	Department           string     `json:"department,omitempty" db:"department" example:"Computer Science"`
	Level                string     `json:"level,omitempty" db:"level" example:"400"`
	Organization         string     `json:"organization,omitempty" db:"organization"`
	IndustrySupervisorID *int64     `json:"industrySupervisorId,omitempty" db:"industry_supervisor_id"`
	SchoolSupervisorID   *int64     `json:"schoolSupervisorId,omitempty" db:"school_supervisor_id"`
	IsActive             bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt          *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	name := u.FirstName
	if u.MiddleName != "" {
		name += " " + u.MiddleName
	}
	return name + " " + u.LastName
}

// IsStudent reports whether the user holds the student role
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsSupervisor reports whether the user holds either supervisor role
func (u *User) IsSupervisor() bool {
	return u.Role == RoleSupervisorIndustry || u.Role == RoleSupervisorSchool
}

// SupervisorIDFor returns the student's assigned supervisor id for the given
// review stage, or nil when none is assigned
func (u *User) SupervisorIDFor(t SupervisorType) *int64 {
	if t == SupervisorSchool {
		return u.SchoolSupervisorID
	}
	return u.IndustrySupervisorID
}
