package helpdesk

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/skill-matrix/internal"
	"github.com/frahmantamala/skill-matrix/internal/core/datamodel/helpdesk"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/internal/core/events"
)

type Repository interface {
	// CreateTicket mints the sequential ticket id from the counter row and
	// inserts the ticket in one transaction.
	CreateTicket(t *helpdesk.Ticket) error
	GetTicketByID(id string) (*helpdesk.Ticket, error)
	ListTickets(q ListTicketsQuery) ([]*helpdesk.Ticket, int64, error)
	UpdateTicket(t *helpdesk.Ticket) error
	CountByStatus() (map[helpdesk.TicketStatus]int64, error)
	GetUserByID(id string) (*userdm.User, error)
}

type ServiceAPI interface {
	CreateTicket(userID string, dto CreateTicketDTO) (*helpdesk.Ticket, error)
	GetTicket(id string, requester *userdm.User) (*helpdesk.Ticket, error)
	ListTickets(q ListTicketsQuery, requester *userdm.User) ([]*helpdesk.Ticket, int64, error)
	UpdateTicket(ctx context.Context, id string, dto UpdateTicketDTO) (*helpdesk.Ticket, error)
	GetTicketStats() (*TicketStats, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo   Repository
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(logger *slog.Logger, repo Repository, bus EventPublisher) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) CreateTicket(userID string, dto CreateTicketDTO) (*helpdesk.Ticket, error) {
	priority := helpdesk.TicketPriority(dto.Priority)
	if dto.Priority == "" {
		priority = helpdesk.PriorityMedium
	}

	t := &helpdesk.Ticket{
		SubmittedByID: userID,
		QueryType:     dto.QueryType,
		Description:   dto.Description,
		Priority:      priority,
		Status:        helpdesk.StatusOpen,
	}
	if err := s.repo.CreateTicket(t); err != nil {
		return nil, internal.NewInternalError("failed to create ticket", err)
	}

	s.logger.Info("ticket created", "ticket_id", t.TicketID, "user_id", userID)
	return t, nil
}

// GetTicket hides other employees' tickets; admins see everything.
func (s *Service) GetTicket(id string, requester *userdm.User) (*helpdesk.Ticket, error) {
	t, err := s.repo.GetTicketByID(id)
	if err != nil {
		return nil, internal.ErrTicketNotFound
	}
	if !requester.IsAdmin() && t.SubmittedByID != requester.ID {
		return nil, internal.ErrTicketNotFound
	}
	return t, nil
}

func (s *Service) ListTickets(q ListTicketsQuery, requester *userdm.User) ([]*helpdesk.Ticket, int64, error) {
	if !requester.IsAdmin() {
		q.SubmittedByID = requester.ID
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	tickets, total, err := s.repo.ListTickets(q)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list tickets", err)
	}
	return tickets, total, nil
}

// UpdateTicket applies admin changes. An assignee must hold the admin role;
// a status change notifies the submitter through the event bus.
func (s *Service) UpdateTicket(ctx context.Context, id string, dto UpdateTicketDTO) (*helpdesk.Ticket, error) {
	t, err := s.repo.GetTicketByID(id)
	if err != nil {
		return nil, internal.ErrTicketNotFound
	}

	statusChanged := false
	if dto.Status != nil && helpdesk.TicketStatus(*dto.Status) != t.Status {
		t.Status = helpdesk.TicketStatus(*dto.Status)
		statusChanged = true
	}
	if dto.Priority != nil {
		t.Priority = helpdesk.TicketPriority(*dto.Priority)
	}
	if dto.AssignedAdminID != nil {
		admin, err := s.repo.GetUserByID(*dto.AssignedAdminID)
		if err != nil {
			return nil, internal.ErrUserNotFound
		}
		if !admin.IsAdmin() {
			return nil, internal.NewValidationError(
				"assigned user must hold the admin role",
				internal.ErrCodeInvalidAdmin,
			)
		}
		t.AssignedAdminID = dto.AssignedAdminID
	}
	if dto.AdminNotes != nil {
		t.AdminNotes = *dto.AdminNotes
	}

	if err := s.repo.UpdateTicket(t); err != nil {
		return nil, internal.NewInternalError("failed to update ticket", err)
	}

	if statusChanged {
		s.bus.Publish(ctx, events.NewTicketUpdatedEvent(t.ID, t.TicketID, t.SubmittedByID, string(t.Status)))
	}

	s.logger.Info("ticket updated", "ticket_id", t.TicketID, "status", t.Status)
	return t, nil
}

func (s *Service) GetTicketStats() (*TicketStats, error) {
	counts, err := s.repo.CountByStatus()
	if err != nil {
		return nil, internal.NewInternalError("failed to count tickets", err)
	}

	stats := &TicketStats{
		Open:       counts[helpdesk.StatusOpen],
		InProgress: counts[helpdesk.StatusInProgress],
		Resolved:   counts[helpdesk.StatusResolved],
		Closed:     counts[helpdesk.StatusClosed],
	}
	stats.Total = stats.Open + stats.InProgress + stats.Resolved + stats.Closed
	return stats, nil
}
