package settings

type CreateFieldDTO struct {
	Name         string   `json:"name" validate:"required"`
	Type         string   `json:"type" validate:"required,oneof=text number date select"`
	DefaultValue string   `json:"defaultValue"`
	Required     bool     `json:"required"`
	Visibility   string   `json:"visibility" validate:"omitempty,oneof=all admin manager"`
	Options      []string `json:"options"`
}

type UpdateFieldDTO struct {
	Name         *string  `json:"name"`
	DefaultValue *string  `json:"defaultValue"`
	Required     *bool    `json:"required"`
	Visibility   *string  `json:"visibility" validate:"omitempty,oneof=all admin manager"`
	Options      []string `json:"options"`
}

type MoveEmployeeDTO struct {
	EmployeeID    string  `json:"employeeId" validate:"required"`
	NewManagerID  *string `json:"newManagerId"`
	NewDepartment *string `json:"newDepartment"`
}

type BulkMoveDTO struct {
	EmployeeIDs   []string `json:"employeeIds" validate:"required,min=1"`
	NewManagerID  *string  `json:"newManagerId"`
	NewDepartment *string  `json:"newDepartment"`
}

type DeactivateEmployeeDTO struct {
	Reason string `json:"reason" validate:"required"`
	Notes  string `json:"notes"`
}

type BulkDeactivateDTO struct {
	EmployeeIDs []string `json:"employeeIds" validate:"required,min=1"`
	Reason      string   `json:"reason" validate:"required"`
	Notes       string   `json:"notes"`
}

type SearchEmployeesQuery struct {
	Search     string
	Department string
	IsActive   *bool
	Limit      int
	Offset     int
}
