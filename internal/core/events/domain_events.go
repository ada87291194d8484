package events

import (
	"time"

	"github.com/google/uuid"
)

// The closed set of domain event types. New kinds get a typed struct here,
// not an ad-hoc name string at a call site.
const (
	EventTypeEmployeeDeactivated = "employee.deactivated"
	EventTypeTicketUpdated       = "helpdesk.ticket.updated"
	EventTypeSkillReviewDue      = "skill.review.due"
)

type EmployeeDeactivatedEvent struct {
	BaseEvent
	EmployeeID          string `json:"employee_id"`
	EmployeeName        string `json:"employee_name"`
	ReportingManagerID  string `json:"reporting_manager_id,omitempty"`
	FunctionalManagerID string `json:"functional_manager_id,omitempty"`
	Reason              string `json:"reason"`
}

func NewEmployeeDeactivatedEvent(employeeID, employeeName, reportingManagerID, functionalManagerID, reason string) *EmployeeDeactivatedEvent {
	return &EmployeeDeactivatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeEmployeeDeactivated,
			Timestamp: time.Now(),
		},
		EmployeeID:          employeeID,
		EmployeeName:        employeeName,
		ReportingManagerID:  reportingManagerID,
		FunctionalManagerID: functionalManagerID,
		Reason:              reason,
	}
}

type TicketUpdatedEvent struct {
	BaseEvent
	TicketID      string `json:"ticket_id"`
	TicketNumber  string `json:"ticket_number"`
	SubmittedByID string `json:"submitted_by_id"`
	Status        string `json:"status"`
}

func NewTicketUpdatedEvent(ticketID, ticketNumber, submittedByID, status string) *TicketUpdatedEvent {
	return &TicketUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeTicketUpdated,
			Timestamp: time.Now(),
		},
		TicketID:      ticketID,
		TicketNumber:  ticketNumber,
		SubmittedByID: submittedByID,
		Status:        status,
	}
}

type SkillReviewDueEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	SkillID    string `json:"skill_id"`
}

func NewSkillReviewDueEvent(employeeID, skillID string) *SkillReviewDueEvent {
	return &SkillReviewDueEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeSkillReviewDue,
			Timestamp: time.Now(),
		},
		EmployeeID: employeeID,
		SkillID:    skillID,
	}
}
