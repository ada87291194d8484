package customfield

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FieldType string

const (
	TypeText   FieldType = "text"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
	TypeSelect FieldType = "select"
)

func ValidType(t FieldType) bool {
	switch t {
	case TypeText, TypeNumber, TypeDate, TypeSelect:
		return true
	}
	return false
}

type FieldVisibility string

const (
	VisibilityAll     FieldVisibility = "all"
	VisibilityAdmin   FieldVisibility = "admin"
	VisibilityManager FieldVisibility = "manager"
)

func ValidVisibility(v FieldVisibility) bool {
	switch v {
	case VisibilityAll, VisibilityAdmin, VisibilityManager:
		return true
	}
	return false
}

// OptionList is stored as a comma-separated column.
type OptionList []string

func (o OptionList) Value() (driver.Value, error) {
	return strings.Join(o, ","), nil
}

func (o *OptionList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*o = nil
		return nil
	default:
		return errors.New("unsupported type for OptionList")
	}
	if raw == "" {
		*o = nil
		return nil
	}
	*o = strings.Split(raw, ",")
	return nil
}

// CustomField describes an admin-defined extra user attribute. It is
// descriptor metadata only; values live on the user record.
type CustomField struct {
	ID           string          `gorm:"primaryKey;column:id"`
	Name         string          `gorm:"column:name;uniqueIndex;not null"`
	Type         FieldType       `gorm:"column:type;not null"`
	DefaultValue string          `gorm:"column:default_value"`
	Required     bool            `gorm:"column:required;default:false"`
	Visibility   FieldVisibility `gorm:"column:visibility;default:all"`
	Options      OptionList      `gorm:"column:options;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (CustomField) TableName() string { return "custom_fields" }

func (f *CustomField) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
