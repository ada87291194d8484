package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/skill-matrix/internal/core/datamodel/helpdesk"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	hd "github.com/frahmantamala/skill-matrix/internal/helpdesk"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// CreateTicket increments the counter row under a row lock and inserts the
// ticket with the minted id, all in one transaction. Two concurrent creates
// serialize on the lock and get distinct numbers.
func (r *TicketRepository) CreateTicket(t *helpdesk.Ticket) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var counter helpdesk.Counter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", 1).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = helpdesk.Counter{ID: 1, Value: 0}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		counter.Value++
		if err := tx.Model(&helpdesk.Counter{}).
			Where("id = ?", counter.ID).
			Update("value", counter.Value).Error; err != nil {
			return err
		}

		t.TicketID = helpdesk.FormatTicketID(counter.Value)
		return tx.Create(t).Error
	})
}

func (r *TicketRepository) GetTicketByID(id string) (*helpdesk.Ticket, error) {
	var t helpdesk.Ticket
	err := r.db.
		Preload("SubmittedBy").
		Preload("AssignedAdmin").
		Where("id = ? OR ticket_id = ?", id, id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) ListTickets(q hd.ListTicketsQuery) ([]*helpdesk.Ticket, int64, error) {
	query := r.db.Model(&helpdesk.Ticket{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where("ticket_id LIKE ? OR description LIKE ?", like, like)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.QueryType != "" {
		query = query.Where("query_type = ?", q.QueryType)
	}
	if q.SubmittedByID != "" {
		query = query.Where("submitted_by_id = ?", q.SubmittedByID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tickets []*helpdesk.Ticket
	err := query.
		Preload("SubmittedBy").
		Preload("AssignedAdmin").
		Order("created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&tickets).Error
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) UpdateTicket(t *helpdesk.Ticket) error {
	return r.db.Save(t).Error
}

func (r *TicketRepository) CountByStatus() (map[helpdesk.TicketStatus]int64, error) {
	var rows []struct {
		Status helpdesk.TicketStatus
		Count  int64
	}
	err := r.db.Model(&helpdesk.Ticket{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[helpdesk.TicketStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *TicketRepository) GetUserByID(id string) (*userdm.User, error) {
	var u userdm.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
