package settings

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/skill-matrix/internal"
	cfdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/customfield"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/internal/core/events"
	"github.com/frahmantamala/skill-matrix/internal/user"
)

type Repository interface {
	CreateField(f *cfdm.CustomField) error
	GetFieldByID(id string) (*cfdm.CustomField, error)
	GetFieldByName(name string) (*cfdm.CustomField, error)
	ListFields() ([]*cfdm.CustomField, error)
	UpdateField(f *cfdm.CustomField) error
	DeleteField(id string) error

	GetUserByID(id string) (*userdm.User, error)
	SearchUsers(q SearchEmployeesQuery) ([]*userdm.User, int64, error)
	ListInactiveUsers() ([]*userdm.User, error)
	SaveUser(u *userdm.User) error
	// DeactivateAll flips every listed user inactive in one transaction; any
	// failure rolls back the whole batch.
	DeactivateAll(users []*userdm.User) error
	GetManagerIDs(id string) (reporting, functional *string, err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type ServiceAPI interface {
	CreateField(dto CreateFieldDTO) (*cfdm.CustomField, error)
	GetField(id string) (*cfdm.CustomField, error)
	GetFields() ([]*cfdm.CustomField, error)
	UpdateField(id string, dto UpdateFieldDTO) (*cfdm.CustomField, error)
	DeleteField(id string) error

	MoveEmployee(dto MoveEmployeeDTO) (*user.View, error)
	BulkMove(dto BulkMoveDTO) ([]*user.View, error)
	SearchEmployees(q SearchEmployeesQuery) ([]*user.View, int64, error)
	DeactivateEmployee(ctx context.Context, employeeID, actorID string, dto DeactivateEmployeeDTO) error
	BulkDeactivate(ctx context.Context, actorID string, dto BulkDeactivateDTO) error
	GetInactiveEmployees() ([]*user.View, error)
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

func (s *Service) CreateField(dto CreateFieldDTO) (*cfdm.CustomField, error) {
	if _, err := s.repo.GetFieldByName(dto.Name); err == nil {
		return nil, internal.ErrDuplicateField
	}

	if !cfdm.ValidType(cfdm.FieldType(dto.Type)) {
		return nil, internal.NewValidationError("invalid field type", internal.ErrCodeValidationFailed)
	}
	if cfdm.FieldType(dto.Type) == cfdm.TypeSelect && len(dto.Options) == 0 {
		return nil, internal.NewValidationError("select fields need at least one option", internal.ErrCodeValidationFailed)
	}

	visibility := cfdm.FieldVisibility(dto.Visibility)
	if dto.Visibility == "" {
		visibility = cfdm.VisibilityAll
	}

	f := &cfdm.CustomField{
		Name:         dto.Name,
		Type:         cfdm.FieldType(dto.Type),
		DefaultValue: dto.DefaultValue,
		Required:     dto.Required,
		Visibility:   visibility,
		Options:      dto.Options,
	}
	if err := s.repo.CreateField(f); err != nil {
		return nil, internal.NewInternalError("failed to create custom field", err)
	}

	s.logger.Info("custom field created", "field", f.Name, "type", f.Type)
	return f, nil
}

func (s *Service) GetField(id string) (*cfdm.CustomField, error) {
	f, err := s.repo.GetFieldByID(id)
	if err != nil {
		return nil, internal.ErrFieldNotFound
	}
	return f, nil
}

func (s *Service) GetFields() ([]*cfdm.CustomField, error) {
	fields, err := s.repo.ListFields()
	if err != nil {
		return nil, internal.NewInternalError("failed to list custom fields", err)
	}
	return fields, nil
}

func (s *Service) UpdateField(id string, dto UpdateFieldDTO) (*cfdm.CustomField, error) {
	f, err := s.repo.GetFieldByID(id)
	if err != nil {
		return nil, internal.ErrFieldNotFound
	}

	if dto.Name != nil && *dto.Name != f.Name {
		if existing, err := s.repo.GetFieldByName(*dto.Name); err == nil && existing.ID != f.ID {
			return nil, internal.ErrDuplicateField
		}
		f.Name = *dto.Name
	}
	if dto.DefaultValue != nil {
		f.DefaultValue = *dto.DefaultValue
	}
	if dto.Required != nil {
		f.Required = *dto.Required
	}
	if dto.Visibility != nil {
		f.Visibility = cfdm.FieldVisibility(*dto.Visibility)
	}
	if dto.Options != nil {
		f.Options = dto.Options
	}

	if err := s.repo.UpdateField(f); err != nil {
		return nil, internal.NewInternalError("failed to update custom field", err)
	}
	return f, nil
}

func (s *Service) DeleteField(id string) error {
	if _, err := s.repo.GetFieldByID(id); err != nil {
		return internal.ErrFieldNotFound
	}
	if err := s.repo.DeleteField(id); err != nil {
		return internal.NewInternalError("failed to delete custom field", err)
	}
	s.logger.Info("custom field deleted", "field_id", id)
	return nil
}

// MoveEmployee changes the reporting manager and/or department and appends a
// movement record so the trail survives later moves.
func (s *Service) MoveEmployee(dto MoveEmployeeDTO) (*user.View, error) {
	u, err := s.repo.GetUserByID(dto.EmployeeID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	record := userdm.MovementRecord{
		Date:               time.Now(),
		PreviousDepartment: u.Department,
	}
	if u.ReportingManagerID != nil {
		record.PreviousManager = *u.ReportingManagerID
	}

	if dto.NewManagerID != nil {
		if *dto.NewManagerID == u.ID {
			return nil, internal.ErrManagerCycle
		}
		if _, err := s.repo.GetUserByID(*dto.NewManagerID); err != nil {
			return nil, internal.ErrManagerNotFound
		}
		if err := s.checkForCycle(u.ID, *dto.NewManagerID); err != nil {
			return nil, err
		}
		u.ReportingManagerID = dto.NewManagerID
		record.NewManager = *dto.NewManagerID
	}
	if dto.NewDepartment != nil {
		u.Department = *dto.NewDepartment
		record.NewDepartment = *dto.NewDepartment
	}

	u.MovementHistory = append(u.MovementHistory, record)
	if err := s.repo.SaveUser(u); err != nil {
		return nil, internal.NewInternalError("failed to move employee", err)
	}

	s.logger.Info("employee moved", "employee_id", u.ID, "department", u.Department)
	return user.ToView(u), nil
}

// BulkMove is all-or-nothing on resolution: every employee id and the target
// manager must resolve, and no move may introduce a cycle, before anything is
// written.
func (s *Service) BulkMove(dto BulkMoveDTO) ([]*user.View, error) {
	employees := make([]*userdm.User, 0, len(dto.EmployeeIDs))
	for _, id := range dto.EmployeeIDs {
		u, err := s.repo.GetUserByID(id)
		if err != nil {
			return nil, internal.ErrUserNotFound.WithDetails(map[string]string{"employeeId": id})
		}
		employees = append(employees, u)
	}

	if dto.NewManagerID != nil {
		if _, err := s.repo.GetUserByID(*dto.NewManagerID); err != nil {
			return nil, internal.ErrManagerNotFound
		}
		for _, u := range employees {
			if *dto.NewManagerID == u.ID {
				return nil, internal.ErrManagerCycle
			}
			if err := s.checkForCycle(u.ID, *dto.NewManagerID); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now()
	for _, u := range employees {
		record := userdm.MovementRecord{
			Date:               now,
			PreviousDepartment: u.Department,
		}
		if u.ReportingManagerID != nil {
			record.PreviousManager = *u.ReportingManagerID
		}
		if dto.NewManagerID != nil {
			u.ReportingManagerID = dto.NewManagerID
			record.NewManager = *dto.NewManagerID
		}
		if dto.NewDepartment != nil {
			u.Department = *dto.NewDepartment
			record.NewDepartment = *dto.NewDepartment
		}
		u.MovementHistory = append(u.MovementHistory, record)

		if err := s.repo.SaveUser(u); err != nil {
			return nil, internal.NewInternalError("failed to move employees", err)
		}
	}

	s.logger.Info("employees bulk moved", "count", len(employees))
	return user.ToViews(employees), nil
}

func (s *Service) checkForCycle(employeeID, managerID string) error {
	const maxDepth = 100

	current := managerID
	for i := 0; i < maxDepth; i++ {
		reporting, _, err := s.repo.GetManagerIDs(current)
		if err != nil {
			return internal.NewInternalError("failed to walk manager chain", err)
		}
		if reporting == nil {
			return nil
		}
		if *reporting == employeeID {
			return internal.ErrManagerCycle
		}
		current = *reporting
	}

	return internal.ErrManagerCycle
}

func (s *Service) SearchEmployees(q SearchEmployeesQuery) ([]*user.View, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	users, total, err := s.repo.SearchUsers(q)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to search employees", err)
	}
	return user.ToViews(users), total, nil
}

// DeactivateEmployee flips the flag, appends a deactivation record, and
// publishes the event that fans out manager notifications.
func (s *Service) DeactivateEmployee(ctx context.Context, employeeID, actorID string, dto DeactivateEmployeeDTO) error {
	u, err := s.repo.GetUserByID(employeeID)
	if err != nil {
		return internal.ErrUserNotFound
	}
	if !u.IsActive {
		return internal.ErrAlreadyInactive
	}

	u.IsActive = false
	u.DeactivationHistory = append(u.DeactivationHistory, userdm.DeactivationRecord{
		Date:          time.Now(),
		Reason:        dto.Reason,
		Notes:         dto.Notes,
		DeactivatedBy: actorID,
	})

	if err := s.repo.SaveUser(u); err != nil {
		return internal.NewInternalError("failed to deactivate employee", err)
	}

	s.publishDeactivation(ctx, u, dto.Reason)
	s.logger.Info("employee deactivated", "employee_id", u.ID, "by", actorID, "reason", dto.Reason)
	return nil
}

// BulkDeactivate is all-or-nothing: every listed employee must exist and be
// active, otherwise nothing is written.
func (s *Service) BulkDeactivate(ctx context.Context, actorID string, dto BulkDeactivateDTO) error {
	users := make([]*userdm.User, 0, len(dto.EmployeeIDs))
	for _, id := range dto.EmployeeIDs {
		u, err := s.repo.GetUserByID(id)
		if err != nil {
			return internal.ErrUserNotFound.WithDetails(map[string]string{"employeeId": id})
		}
		if !u.IsActive {
			return internal.ErrAlreadyInactive.WithDetails(map[string]string{"employeeId": id})
		}
		users = append(users, u)
	}

	now := time.Now()
	for _, u := range users {
		u.IsActive = false
		u.DeactivationHistory = append(u.DeactivationHistory, userdm.DeactivationRecord{
			Date:          now,
			Reason:        dto.Reason,
			Notes:         dto.Notes,
			DeactivatedBy: actorID,
		})
	}

	if err := s.repo.DeactivateAll(users); err != nil {
		return internal.NewInternalError("failed to deactivate employees", err)
	}

	for _, u := range users {
		s.publishDeactivation(ctx, u, dto.Reason)
	}

	s.logger.Info("employees bulk deactivated", "count", len(users), "by", actorID)
	return nil
}

func (s *Service) publishDeactivation(ctx context.Context, u *userdm.User, reason string) {
	var reportingID, functionalID string
	if u.ReportingManagerID != nil {
		reportingID = *u.ReportingManagerID
	}
	if u.FunctionalManagerID != nil {
		functionalID = *u.FunctionalManagerID
	}
	s.bus.Publish(ctx, events.NewEmployeeDeactivatedEvent(u.ID, u.EmployeeName, reportingID, functionalID, reason))
}

func (s *Service) GetInactiveEmployees() ([]*user.View, error) {
	users, err := s.repo.ListInactiveUsers()
	if err != nil {
		return nil, internal.NewInternalError("failed to list inactive employees", err)
	}
	return user.ToViews(users), nil
}
