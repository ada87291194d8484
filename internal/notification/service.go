package notification

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/skill-matrix/internal"
	notifdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/notification"
)

type ListQuery struct {
	Type       string
	Priority   string
	UnreadOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	Create(n *notifdm.Notification) error
	GetByID(id string) (*notifdm.Notification, error)
	ListByUser(userID string, q ListQuery) ([]*notifdm.Notification, int64, error)
	MarkRead(id string) error
	MarkAllRead(userID string) error
	CountUnread(userID string) (int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type ServiceAPI interface {
	Notify(userID string, typ notifdm.Type, title, message string, priority notifdm.Priority, meta notifdm.Metadata) error
	List(userID string, q ListQuery) ([]*notifdm.Notification, int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	UnreadCount(userID string) (int64, error)
	CleanupOldNotifications(maxAge time.Duration) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Notify(userID string, typ notifdm.Type, title, message string, priority notifdm.Priority, meta notifdm.Metadata) error {
	n := &notifdm.Notification{
		UserID:   userID,
		Type:     typ,
		Title:    title,
		Message:  message,
		Priority: priority,
		Metadata: meta,
	}
	if err := s.repo.Create(n); err != nil {
		return internal.NewInternalError("failed to create notification", err)
	}
	return nil
}

func (s *Service) List(userID string, q ListQuery) ([]*notifdm.Notification, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	rows, total, err := s.repo.ListByUser(userID, q)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list notifications", err)
	}
	return rows, total, nil
}

// MarkRead only touches the caller's own rows.
func (s *Service) MarkRead(userID, notificationID string) error {
	n, err := s.repo.GetByID(notificationID)
	if err != nil {
		return internal.ErrNotificationNotFound
	}
	if n.UserID != userID {
		return internal.ErrNotificationNotFound
	}
	if err := s.repo.MarkRead(notificationID); err != nil {
		return internal.NewInternalError("failed to mark notification read", err)
	}
	return nil
}

func (s *Service) MarkAllRead(userID string) error {
	if err := s.repo.MarkAllRead(userID); err != nil {
		return internal.NewInternalError("failed to mark notifications read", err)
	}
	return nil
}

func (s *Service) UnreadCount(userID string) (int64, error) {
	count, err := s.repo.CountUnread(userID)
	if err != nil {
		return 0, internal.NewInternalError("failed to count notifications", err)
	}
	return count, nil
}

// CleanupOldNotifications deletes rows older than maxAge and reports how
// many went away.
func (s *Service) CleanupOldNotifications(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	deleted, err := s.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, internal.NewInternalError("failed to clean up notifications", err)
	}
	s.logger.Info("old notifications cleaned up", "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}
