package postgres

import (
	"gorm.io/gorm"

	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *userdm.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id string) (*userdm.User, error) {
	var u userdm.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByIDWithRelations(id string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.
		Preload("Roles").
		Preload("ReportingManager").
		Preload("FunctionalManager").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmployeeCode(code string) (*userdm.User, error) {
	var u userdm.User
	if err := r.db.Where("employee_code = ?", code).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userdm.User, error) {
	var u userdm.User
	if err := r.db.Where("official_email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(q user.ListUsersQuery) ([]*userdm.User, int64, error) {
	query := r.db.Model(&userdm.User{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where(
			"employee_name LIKE ? OR employee_code LIKE ? OR official_email LIKE ?",
			like, like, like,
		)
	}
	if q.Department != "" {
		query = query.Where("department = ?", q.Department)
	}
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}
	if q.IsActive != nil {
		query = query.Where("is_active = ?", *q.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*userdm.User
	err := query.
		Preload("ReportingManager").
		Preload("FunctionalManager").
		Order("employee_name ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Update(u *userdm.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.db.Model(&userdm.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) SoftDelete(id string) error {
	return r.db.Where("id = ?", id).Delete(&userdm.User{}).Error
}

// GetTeamMembers returns active users managed through either edge.
func (r *UserRepository) GetTeamMembers(managerID string) ([]*userdm.User, error) {
	var users []*userdm.User
	err := r.db.
		Where("(reporting_manager_id = ? OR functional_manager_id = ?) AND is_active = ?",
			managerID, managerID, true).
		Order("employee_name ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) GetManagerIDs(id string) (*string, *string, error) {
	var row struct {
		ReportingManagerID  *string
		FunctionalManagerID *string
	}
	err := r.db.Model(&userdm.User{}).
		Select("reporting_manager_id", "functional_manager_id").
		Where("id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, nil, err
	}
	return row.ReportingManagerID, row.FunctionalManagerID, nil
}
