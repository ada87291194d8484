package user

import "time"

type CreateUserDTO struct {
	EmployeeCode  string     `json:"employeeCode" validate:"required"`
	Password      string     `json:"password" validate:"required,min=8"`
	EmployeeName  string     `json:"employeeName" validate:"required"`
	BusinessUnit  string     `json:"businessUnit"`
	Department    string     `json:"department"`
	Designation   string     `json:"designation"`
	OfficialEmail string     `json:"officialEmail" validate:"required,email"`
	Gender        string     `json:"gender" validate:"omitempty,oneof=M F O"`
	Role          string     `json:"role" validate:"omitempty,oneof=admin manager employee"`
	DateOfJoining *time.Time `json:"dateOfJoining"`

	ReportingManagerID  *string `json:"reportingManagerId"`
	FunctionalManagerID *string `json:"functionalManagerId"`

	CustomFields map[string]interface{} `json:"customFields"`
}

// UpdateUserDTO uses pointers so absent fields are left untouched.
type UpdateUserDTO struct {
	EmployeeName  *string    `json:"employeeName"`
	BusinessUnit  *string    `json:"businessUnit"`
	Department    *string    `json:"department"`
	Designation   *string    `json:"designation"`
	OfficialEmail *string    `json:"officialEmail" validate:"omitempty,email"`
	Gender        *string    `json:"gender" validate:"omitempty,oneof=M F O"`
	Role          *string    `json:"role" validate:"omitempty,oneof=admin manager employee"`
	DateOfJoining *time.Time `json:"dateOfJoining"`

	CustomFields map[string]interface{} `json:"customFields"`
}

const (
	HierarchyKindReporting  = "reporting"
	HierarchyKindFunctional = "functional"
)

type UpdateHierarchyDTO struct {
	ManagerID *string `json:"managerId"`
	Kind      string  `json:"kind" validate:"required,oneof=reporting functional"`
}

type ListUsersQuery struct {
	Search     string
	Department string
	Role       string
	IsActive   *bool
	Limit      int
	Offset     int
}
