package user

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/skill-matrix/internal"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

type Repository interface {
	Create(u *userdm.User) error
	GetByID(id string) (*userdm.User, error)
	GetByIDWithRelations(id string) (*userdm.User, error)
	GetByEmployeeCode(code string) (*userdm.User, error)
	GetByEmail(email string) (*userdm.User, error)
	List(q ListUsersQuery) ([]*userdm.User, int64, error)
	Update(u *userdm.User) error
	UpdateFields(id string, fields map[string]interface{}) error
	SoftDelete(id string) error
	GetTeamMembers(managerID string) ([]*userdm.User, error)
	GetManagerIDs(id string) (reporting, functional *string, err error)
}

type ServiceAPI interface {
	CreateUser(dto CreateUserDTO) (*View, error)
	GetUser(id string) (*View, error)
	ListUsers(q ListUsersQuery) ([]*View, int64, error)
	UpdateUser(id string, dto UpdateUserDTO) (*View, error)
	DeleteUser(id string) error
	ActivateUser(id string) error
	UpdateHierarchy(id string, dto UpdateHierarchyDTO) (*View, error)
	GetTeam(managerID string) ([]*View, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(logger *slog.Logger, repo Repository, security internal.SecurityConfig) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: security.BCryptCost,
		logger:     logger,
	}
}

func (s *Service) CreateUser(dto CreateUserDTO) (*View, error) {
	if _, err := s.repo.GetByEmployeeCode(dto.EmployeeCode); err == nil {
		return nil, internal.ErrDuplicateUser
	}
	if _, err := s.repo.GetByEmail(dto.OfficialEmail); err == nil {
		return nil, internal.ErrDuplicateUser
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role := dto.Role
	if role == "" {
		role = userdm.RoleEmployee
	}

	u := &userdm.User{
		EmployeeCode:  dto.EmployeeCode,
		PasswordHash:  string(passwordHash),
		EmployeeName:  dto.EmployeeName,
		BusinessUnit:  dto.BusinessUnit,
		Department:    dto.Department,
		Designation:   dto.Designation,
		OfficialEmail: dto.OfficialEmail,
		Gender:        userdm.Gender(dto.Gender),
		Role:          role,
		IsActive:      true,
		CustomFields:  dto.CustomFields,
	}
	if dto.DateOfJoining != nil {
		u.DateOfJoining = *dto.DateOfJoining
	}

	if dto.ReportingManagerID != nil {
		if _, err := s.repo.GetByID(*dto.ReportingManagerID); err != nil {
			return nil, internal.ErrManagerNotFound
		}
		u.ReportingManagerID = dto.ReportingManagerID
	}
	if dto.FunctionalManagerID != nil {
		if _, err := s.repo.GetByID(*dto.FunctionalManagerID); err != nil {
			return nil, internal.ErrManagerNotFound
		}
		u.FunctionalManagerID = dto.FunctionalManagerID
	}

	if err := s.repo.Create(u); err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "employee_code", u.EmployeeCode)
	return ToView(u), nil
}

func (s *Service) GetUser(id string) (*View, error) {
	u, err := s.repo.GetByIDWithRelations(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return ToView(u), nil
}

func (s *Service) ListUsers(q ListUsersQuery) ([]*View, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	users, total, err := s.repo.List(q)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to list users", err)
	}
	return ToViews(users), total, nil
}

func (s *Service) UpdateUser(id string, dto UpdateUserDTO) (*View, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.OfficialEmail != nil && *dto.OfficialEmail != u.OfficialEmail {
		if existing, err := s.repo.GetByEmail(*dto.OfficialEmail); err == nil && existing.ID != id {
			return nil, internal.ErrDuplicateUser
		}
		u.OfficialEmail = *dto.OfficialEmail
	}
	if dto.EmployeeName != nil {
		u.EmployeeName = *dto.EmployeeName
	}
	if dto.BusinessUnit != nil {
		u.BusinessUnit = *dto.BusinessUnit
	}
	if dto.Department != nil {
		u.Department = *dto.Department
	}
	if dto.Designation != nil {
		u.Designation = *dto.Designation
	}
	if dto.Gender != nil {
		u.Gender = userdm.Gender(*dto.Gender)
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.DateOfJoining != nil {
		u.DateOfJoining = *dto.DateOfJoining
	}
	if dto.CustomFields != nil {
		if u.CustomFields == nil {
			u.CustomFields = userdm.CustomValues{}
		}
		for k, v := range dto.CustomFields {
			u.CustomFields[k] = v
		}
	}

	if err := s.repo.Update(u); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", id)
	return ToView(u), nil
}

func (s *Service) DeleteUser(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrUserNotFound
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return internal.NewInternalError("failed to delete user", err)
	}
	s.logger.Info("user soft-deleted", "user_id", id)
	return nil
}

func (s *Service) ActivateUser(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrUserNotFound
	}
	if err := s.repo.UpdateFields(id, map[string]interface{}{
		"is_active":  true,
		"updated_at": time.Now(),
	}); err != nil {
		return internal.NewInternalError("failed to activate user", err)
	}
	s.logger.Info("user activated", "user_id", id)
	return nil
}

// UpdateHierarchy sets or clears one of the two manager edges. A new edge is
// rejected when walking the proposed manager's chain of the same kind leads
// back to the employee.
func (s *Service) UpdateHierarchy(id string, dto UpdateHierarchyDTO) (*View, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	column := "reporting_manager_id"
	if dto.Kind == HierarchyKindFunctional {
		column = "functional_manager_id"
	}

	if dto.ManagerID != nil {
		if *dto.ManagerID == id {
			return nil, internal.ErrManagerCycle
		}
		if _, err := s.repo.GetByID(*dto.ManagerID); err != nil {
			return nil, internal.ErrManagerNotFound
		}
		if err := s.checkForCycle(id, *dto.ManagerID, dto.Kind); err != nil {
			return nil, err
		}
	}

	var value interface{}
	if dto.ManagerID != nil {
		value = *dto.ManagerID
	}
	if err := s.repo.UpdateFields(id, map[string]interface{}{
		column:       value,
		"updated_at": time.Now(),
	}); err != nil {
		return nil, internal.NewInternalError("failed to update hierarchy", err)
	}

	s.logger.Info("hierarchy updated", "user_id", id, "kind", dto.Kind)

	updated, err := s.repo.GetByIDWithRelations(u.ID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return ToView(updated), nil
}

// checkForCycle walks up from the proposed manager along the same edge kind.
// The walk is bounded so a corrupted chain cannot loop forever.
func (s *Service) checkForCycle(employeeID, managerID, kind string) error {
	const maxDepth = 100

	current := managerID
	for i := 0; i < maxDepth; i++ {
		reporting, functional, err := s.repo.GetManagerIDs(current)
		if err != nil {
			return internal.NewInternalError("failed to walk manager chain", err)
		}

		next := reporting
		if kind == HierarchyKindFunctional {
			next = functional
		}
		if next == nil {
			return nil
		}
		if *next == employeeID {
			return internal.ErrManagerCycle
		}
		current = *next
	}

	return internal.ErrManagerCycle
}

func (s *Service) GetTeam(managerID string) ([]*View, error) {
	members, err := s.repo.GetTeamMembers(managerID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load team", err)
	}
	return ToViews(members), nil
}
