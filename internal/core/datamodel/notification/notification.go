package notification

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypeSkillReview          Type = "skill_review"
	TypeHelpdeskUpdate       Type = "helpdesk_update"
	TypeEmployeeMovement     Type = "employee_movement"
	TypeEmployeeDeactivation Type = "employee_deactivation"
	TypeCustomField          Type = "custom_field"
	TypeSystem               Type = "system"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for Metadata")
	}
}

type Notification struct {
	ID       string   `gorm:"primaryKey;column:id"`
	UserID   string   `gorm:"column:user_id;not null;index"`
	Type     Type     `gorm:"column:type;not null"`
	Title    string   `gorm:"column:title;not null"`
	Message  string   `gorm:"column:message;type:text"`
	Priority Priority `gorm:"column:priority;default:medium"`
	IsRead   bool     `gorm:"column:is_read;default:false"`
	Metadata Metadata `gorm:"column:metadata;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
