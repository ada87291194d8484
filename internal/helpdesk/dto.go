package helpdesk

type CreateTicketDTO struct {
	QueryType   string `json:"queryType" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

type UpdateTicketDTO struct {
	Status          *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority        *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedAdminID *string `json:"assignedAdminId"`
	AdminNotes      *string `json:"adminNotes"`
}

type ListTicketsQuery struct {
	Search        string
	Status        string
	QueryType     string
	SubmittedByID string
	Limit         int
	Offset        int
}

// TicketStats is the admin dashboard breakdown by status.
type TicketStats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}
