package postgres

import (
	"gorm.io/gorm"

	cfdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/customfield"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/internal/settings"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) CreateField(f *cfdm.CustomField) error {
	return r.db.Create(f).Error
}

func (r *SettingsRepository) GetFieldByID(id string) (*cfdm.CustomField, error) {
	var f cfdm.CustomField
	if err := r.db.Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *SettingsRepository) GetFieldByName(name string) (*cfdm.CustomField, error) {
	var f cfdm.CustomField
	if err := r.db.Where("name = ?", name).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *SettingsRepository) ListFields() ([]*cfdm.CustomField, error) {
	var fields []*cfdm.CustomField
	err := r.db.Order("name ASC").Find(&fields).Error
	return fields, err
}

func (r *SettingsRepository) UpdateField(f *cfdm.CustomField) error {
	return r.db.Save(f).Error
}

func (r *SettingsRepository) DeleteField(id string) error {
	return r.db.Where("id = ?", id).Delete(&cfdm.CustomField{}).Error
}

func (r *SettingsRepository) GetUserByID(id string) (*userdm.User, error) {
	var u userdm.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SettingsRepository) SearchUsers(q settings.SearchEmployeesQuery) ([]*userdm.User, int64, error) {
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
	if q.IsActive != nil {
		query = query.Where("is_active = ?", *q.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*userdm.User
	err := query.
		Order("employee_name ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *SettingsRepository) ListInactiveUsers() ([]*userdm.User, error) {
	var users []*userdm.User
	err := r.db.
		Where("is_active = ?", false).
		Order("updated_at DESC").
		Find(&users).Error
	return users, err
}

func (r *SettingsRepository) SaveUser(u *userdm.User) error {
	return r.db.Save(u).Error
}

func (r *SettingsRepository) DeactivateAll(users []*userdm.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			if err := tx.Save(u).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SettingsRepository) GetManagerIDs(id string) (*string, *string, error) {
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
