package notification

import (
	"context"
	"fmt"
	"log/slog"

	notifdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/notification"
	"github.com/frahmantamala/skill-matrix/internal/core/events"
)

// EventHandler turns domain events into notification rows. Registered
// against the event bus at startup; one subscription per event type.
type EventHandler struct {
	service ServiceAPI
	logger  *slog.Logger
}

func NewEventHandler(logger *slog.Logger, service ServiceAPI) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeEmployeeDeactivated, h.HandleEmployeeDeactivated)
	bus.Subscribe(events.EventTypeTicketUpdated, h.HandleTicketUpdated)
	bus.Subscribe(events.EventTypeSkillReviewDue, h.HandleSkillReviewDue)
}

// HandleEmployeeDeactivated notifies each manager of the departed employee.
// An employee with both managers produces two rows; with none, zero.
func (h *EventHandler) HandleEmployeeDeactivated(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.EmployeeDeactivatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	recipients := make([]string, 0, 2)
	if evt.ReportingManagerID != "" {
		recipients = append(recipients, evt.ReportingManagerID)
	}
	if evt.FunctionalManagerID != "" && evt.FunctionalManagerID != evt.ReportingManagerID {
		recipients = append(recipients, evt.FunctionalManagerID)
	}

	for _, managerID := range recipients {
		err := h.service.Notify(
			managerID,
			notifdm.TypeEmployeeDeactivation,
			"Team member deactivated",
			fmt.Sprintf("%s has been deactivated. Reason: %s", evt.EmployeeName, evt.Reason),
			notifdm.PriorityHigh,
			notifdm.Metadata{
				"employeeId": evt.EmployeeID,
				"reason":     evt.Reason,
			},
		)
		if err != nil {
			h.logger.Error("failed to notify manager of deactivation",
				"manager_id", managerID, "employee_id", evt.EmployeeID, "error", err)
			return err
		}
	}

	return nil
}

func (h *EventHandler) HandleTicketUpdated(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.TicketUpdatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	return h.service.Notify(
		evt.SubmittedByID,
		notifdm.TypeHelpdeskUpdate,
		fmt.Sprintf("Ticket %s updated", evt.TicketNumber),
		fmt.Sprintf("Your helpdesk ticket %s is now %s.", evt.TicketNumber, evt.Status),
		notifdm.PriorityMedium,
		notifdm.Metadata{
			"ticketId":     evt.TicketID,
			"ticketNumber": evt.TicketNumber,
			"status":       evt.Status,
		},
	)
}

func (h *EventHandler) HandleSkillReviewDue(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.SkillReviewDueEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	return h.service.Notify(
		evt.EmployeeID,
		notifdm.TypeSkillReview,
		"Skill review due",
		"One of your skill assessments is due for review.",
		notifdm.PriorityMedium,
		notifdm.Metadata{
			"skillId": evt.SkillID,
		},
	)
}
