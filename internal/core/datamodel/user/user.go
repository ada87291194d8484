package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Scalar role values used for coarse route-level checks. Fine-grained
// permissions live on assigned Role rows.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

type Permission string

const (
	PermissionCreateUser  Permission = "create_user"
	PermissionUpdateUser  Permission = "update_user"
	PermissionDeleteUser  Permission = "delete_user"
	PermissionViewUser    Permission = "view_user"
	PermissionManageRoles Permission = "manage_roles"
	PermissionManageSkill Permission = "manage_skills"
	PermissionViewReports Permission = "view_reports"
)

func ValidPermission(p Permission) bool {
	switch p {
	case PermissionCreateUser, PermissionUpdateUser, PermissionDeleteUser,
		PermissionViewUser, PermissionManageRoles, PermissionManageSkill,
		PermissionViewReports:
		return true
	}
	return false
}

// PermissionList is stored as a comma-separated column.
type PermissionList []Permission

func (p PermissionList) Value() (driver.Value, error) {
	parts := make([]string, len(p))
	for i, perm := range p {
		parts[i] = string(perm)
	}
	return strings.Join(parts, ","), nil
}

func (p *PermissionList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*p = nil
		return nil
	default:
		return errors.New("unsupported type for PermissionList")
	}
	if raw == "" {
		*p = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make(PermissionList, 0, len(parts))
	for _, part := range parts {
		out = append(out, Permission(strings.TrimSpace(part)))
	}
	*p = out
	return nil
}

type Role struct {
	ID          string         `gorm:"primaryKey;column:id"`
	Name        string         `gorm:"column:name;uniqueIndex;not null"`
	Permissions PermissionList `gorm:"column:permissions;type:text"`
	Description string         `gorm:"column:description"`
	Users       []*User        `gorm:"many2many:user_roles;joinForeignKey:RoleID;joinReferences:UserID"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (Role) TableName() string { return "roles" }

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Role) HasPermission(p Permission) bool {
	for _, perm := range r.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

type MovementRecord struct {
	Date               time.Time `json:"date"`
	PreviousManager    string    `json:"previousManager"`
	PreviousDepartment string    `json:"previousDepartment"`
	NewManager         string    `json:"newManager"`
	NewDepartment      string    `json:"newDepartment"`
}

// MovementHistory is an append-only JSON column; movement events are never
// normalized into their own table.
type MovementHistory []MovementRecord

func (h MovementHistory) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	return json.Marshal(h)
}

func (h *MovementHistory) Scan(src interface{}) error {
	return scanJSON(src, h)
}

type DeactivationRecord struct {
	Date          time.Time `json:"date"`
	Reason        string    `json:"reason"`
	Notes         string    `json:"notes,omitempty"`
	DeactivatedBy string    `json:"deactivatedBy"`
}

type DeactivationHistory []DeactivationRecord

func (h DeactivationHistory) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	return json.Marshal(h)
}

func (h *DeactivationHistory) Scan(src interface{}) error {
	return scanJSON(src, h)
}

// CustomValues holds admin-defined extra attributes keyed by field name.
type CustomValues map[string]interface{}

func (c CustomValues) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *CustomValues) Scan(src interface{}) error {
	return scanJSON(src, c)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported type for JSON column")
	}
}

type User struct {
	ID           string `gorm:"primaryKey;column:id"`
	EmployeeCode string `gorm:"column:employee_code;uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	EmployeeName string `gorm:"column:employee_name;not null"`
	BusinessUnit string `gorm:"column:business_unit"`
	Department   string `gorm:"column:department"`
	Designation  string `gorm:"column:designation"`

	OfficialEmail string `gorm:"column:official_email;uniqueIndex;not null"`
	Gender        Gender `gorm:"column:gender"`

	// Coarse routing role; detailed permissions come from Roles.
	Role string `gorm:"column:role;not null;default:employee"`

	DateOfJoining time.Time `gorm:"column:date_of_joining"`
	IsActive      bool      `gorm:"column:is_active;default:true"`

	ReportingManagerID  *string `gorm:"column:reporting_manager_id"`
	ReportingManager    *User   `gorm:"foreignKey:ReportingManagerID"`
	FunctionalManagerID *string `gorm:"column:functional_manager_id"`
	FunctionalManager   *User   `gorm:"foreignKey:FunctionalManagerID"`

	ResetOTPHash   *string    `gorm:"column:reset_otp_hash"`
	ResetOTPExpiry *time.Time `gorm:"column:reset_otp_expiry"`

	Roles []*Role `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`

	MovementHistory     MovementHistory     `gorm:"column:movement_history;type:text"`
	DeactivationHistory DeactivationHistory `gorm:"column:deactivation_history;type:text"`
	CustomFields        CustomValues        `gorm:"column:custom_fields;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasPermission reports whether any assigned role grants p.
func (u *User) HasPermission(p Permission) bool {
	for _, r := range u.Roles {
		if r.HasPermission(p) {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(perms []Permission) bool {
	for _, p := range perms {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) IsManager() bool { return u.Role == RoleManager || u.Role == RoleAdmin }
