package admin

type CreateRoleDTO struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
	Description string   `json:"description"`
}

type AssignRoleDTO struct {
	RoleID  string   `json:"roleId" validate:"required"`
	UserIDs []string `json:"userIds" validate:"required,min=1"`
}

// BulkAssignResult reports the outcome for one CSV row. A row either
// assigned its role or was skipped with a reason; bad rows never abort the
// rest of the file.
type BulkAssignResult struct {
	Row          int    `json:"row"`
	EmployeeCode string `json:"employeeCode"`
	RoleName     string `json:"roleName"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
}

const (
	BulkStatusAssigned = "assigned"
	BulkStatusSkipped  = "skipped"
)
