package helpdesk

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

func ValidStatus(s TicketStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

func ValidPriority(p TicketPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Ticket struct {
	ID string `gorm:"primaryKey;column:id"`

	// Human-readable sequential id, e.g. SMH07. Minted from ticket_counters
	// inside the insert transaction so concurrent creates cannot collide.
	TicketID string `gorm:"column:ticket_id;uniqueIndex;not null"`

	SubmittedByID string     `gorm:"column:submitted_by_id;not null;index"`
	SubmittedBy   *user.User `gorm:"foreignKey:SubmittedByID"`

	QueryType   string         `gorm:"column:query_type;not null"`
	Description string         `gorm:"column:description;type:text"`
	Priority    TicketPriority `gorm:"column:priority;default:medium"`
	Status      TicketStatus   `gorm:"column:status;default:open"`

	AssignedAdminID *string    `gorm:"column:assigned_admin_id"`
	AssignedAdmin   *user.User `gorm:"foreignKey:AssignedAdminID"`

	AdminNotes string `gorm:"column:admin_notes;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Ticket) TableName() string { return "help_desk_tickets" }

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Counter backs ticket id generation; a single row updated transactionally.
type Counter struct {
	ID    int64 `gorm:"primaryKey;column:id"`
	Value int64 `gorm:"column:value;not null"`
}

func (Counter) TableName() string { return "ticket_counters" }

// FormatTicketID renders the nth ticket id, zero-padded to at least two
// digits: SMH01, SMH42, SMH117.
func FormatTicketID(n int64) string {
	return fmt.Sprintf("SMH%02d", n)
}
