package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"

	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetActiveByEmployeeCode(code string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.Where("employee_code = ? AND is_active = ?", code, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetActiveByEmail(email string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.Where("official_email = ? AND is_active = ?", email, true).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetActiveByID(id string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUserWithRoles(id string) (*userdm.User, error) {
	var u userdm.User
	err := r.db.Preload("Roles").Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) SaveResetOTP(userID, otpHash string, expiry time.Time) error {
	return r.db.Model(&userdm.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_otp_hash":   otpHash,
			"reset_otp_expiry": expiry,
		}).Error
}

func (r *Repository) UpdatePasswordAndClearOTP(userID, passwordHash string) error {
	return r.db.Model(&userdm.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash":    passwordHash,
			"reset_otp_hash":   nil,
			"reset_otp_expiry": nil,
		}).Error
}
