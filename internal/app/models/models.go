package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent            RoleType = "student"
	RoleSupervisorIndustry RoleType = "supervisor_industry"
	RoleSupervisorSchool   RoleType = "supervisor_school"
	RoleSuperAdmin         RoleType = "super_admin"
)

// SupervisorType distinguishes the two review stages
type SupervisorType string

const (
	SupervisorIndustry SupervisorType = "industry"
	SupervisorSchool   SupervisorType = "school"
)

// EntryStatus is the lifecycle state of a logbook entry
type EntryStatus string

const (
	EntryDraft    EntryStatus = "draft"
	EntryPending  EntryStatus = "pending"
	EntryApproved EntryStatus = "approved"
)

// Valid reports whether s is a known entry status
func (s EntryStatus) Valid() bool {
	switch s {
	case EntryDraft, EntryPending, EntryApproved:
		return true
	}
	return false
}

// ReviewAction is a supervisor's verdict on an entry
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// ClearanceStatus is the lifecycle state of a student's clearance record
type ClearanceStatus string

const (
	ClearanceNotCleared             ClearanceStatus = "not_cleared"
	ClearanceReadyForSchoolApproval ClearanceStatus = "ready_for_school_approval"
	ClearanceCleared                ClearanceStatus = "cleared"
)

// DurationThreshold is the minimum count of approved entries required for
// program completion. One approved entry stands for one week.
const DurationThreshold = 24
