package user

import (
	"time"

	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

// View is the outward representation of a user; the password hash and OTP
// columns never leave the service layer.
type View struct {
	ID            string     `json:"id"`
	EmployeeCode  string     `json:"employeeCode"`
	EmployeeName  string     `json:"employeeName"`
	BusinessUnit  string     `json:"businessUnit,omitempty"`
	Department    string     `json:"department,omitempty"`
	Designation   string     `json:"designation,omitempty"`
	OfficialEmail string     `json:"officialEmail"`
	Gender        string     `json:"gender,omitempty"`
	Role          string     `json:"role"`
	DateOfJoining *time.Time `json:"dateOfJoining,omitempty"`
	IsActive      bool       `json:"isActive"`

	ReportingManagerID    *string `json:"reportingManagerId,omitempty"`
	ReportingManagerName  string  `json:"reportingManagerName,omitempty"`
	FunctionalManagerID   *string `json:"functionalManagerId,omitempty"`
	FunctionalManagerName string  `json:"functionalManagerName,omitempty"`

	RoleNames []string `json:"roleNames,omitempty"`

	CustomFields map[string]interface{} `json:"customFields,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToView(u *userdm.User) *View {
	v := &View{
		ID:                  u.ID,
		EmployeeCode:        u.EmployeeCode,
		EmployeeName:        u.EmployeeName,
		BusinessUnit:        u.BusinessUnit,
		Department:          u.Department,
		Designation:         u.Designation,
		OfficialEmail:       u.OfficialEmail,
		Gender:              string(u.Gender),
		Role:                u.Role,
		IsActive:            u.IsActive,
		ReportingManagerID:  u.ReportingManagerID,
		FunctionalManagerID: u.FunctionalManagerID,
		CustomFields:        u.CustomFields,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
	if !u.DateOfJoining.IsZero() {
		doj := u.DateOfJoining
		v.DateOfJoining = &doj
	}
	if u.ReportingManager != nil {
		v.ReportingManagerName = u.ReportingManager.EmployeeName
	}
	if u.FunctionalManager != nil {
		v.FunctionalManagerName = u.FunctionalManager.EmployeeName
	}
	for _, r := range u.Roles {
		v.RoleNames = append(v.RoleNames, r.Name)
	}
	return v
}

func ToViews(users []*userdm.User) []*View {
	views := make([]*View, 0, len(users))
	for _, u := range users {
		views = append(views, ToView(u))
	}
	return views
}
