package postgres

import (
	"gorm.io/gorm"

	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) CreateRole(role *userdm.Role) error {
	return r.db.Create(role).Error
}

func (r *RoleRepository) GetRoleByID(id string) (*userdm.Role, error) {
	var role userdm.Role
	if err := r.db.Where("id = ?", id).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) GetRoleByName(name string) (*userdm.Role, error) {
	var role userdm.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepository) ListRoles() ([]*userdm.Role, error) {
	var roles []*userdm.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetUserByID(id string) (*userdm.User, error) {
	var u userdm.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *RoleRepository) GetUserByEmployeeCode(code string) (*userdm.User, error) {
	var u userdm.User
	if err := r.db.Where("employee_code = ?", code).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *RoleRepository) AppendUserRole(userID string, role *userdm.Role) error {
	u := userdm.User{ID: userID}
	return r.db.Model(&u).Association("Roles").Append(role)
}

func (r *RoleRepository) UserHasRole(userID, roleID string) (bool, error) {
	var count int64
	err := r.db.Table("user_roles").
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	return count > 0, err
}
