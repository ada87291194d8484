package admin

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/frahmantamala/skill-matrix/internal"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

type Repository interface {
	CreateRole(role *userdm.Role) error
	GetRoleByID(id string) (*userdm.Role, error)
	GetRoleByName(name string) (*userdm.Role, error)
	ListRoles() ([]*userdm.Role, error)
	GetUserByID(id string) (*userdm.User, error)
	GetUserByEmployeeCode(code string) (*userdm.User, error)
	AppendUserRole(userID string, role *userdm.Role) error
	UserHasRole(userID, roleID string) (bool, error)
}

type ServiceAPI interface {
	CreateRole(dto CreateRoleDTO) (*userdm.Role, error)
	ListRoles() ([]*userdm.Role, error)
	AssignRole(dto AssignRoleDTO) error
	BulkUploadRoles(csvData io.Reader) ([]BulkAssignResult, error)
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

func (s *Service) CreateRole(dto CreateRoleDTO) (*userdm.Role, error) {
	if _, err := s.repo.GetRoleByName(dto.Name); err == nil {
		return nil, internal.ErrDuplicateRole
	}

	perms := make(userdm.PermissionList, 0, len(dto.Permissions))
	for _, raw := range dto.Permissions {
		p := userdm.Permission(strings.TrimSpace(raw))
		if !userdm.ValidPermission(p) {
			return nil, internal.NewValidationError(
				fmt.Sprintf("unknown permission: %s", raw),
				internal.ErrCodeValidationFailed,
			)
		}
		perms = append(perms, p)
	}

	role := &userdm.Role{
		Name:        dto.Name,
		Permissions: perms,
		Description: dto.Description,
	}
	if err := s.repo.CreateRole(role); err != nil {
		return nil, internal.NewInternalError("failed to create role", err)
	}

	s.logger.Info("role created", "role", role.Name, "permissions", len(perms))
	return role, nil
}

func (s *Service) ListRoles() ([]*userdm.Role, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	return roles, nil
}

// AssignRole grants one role to many users. Every user id must resolve
// before anything is written; one bad id fails the whole request.
func (s *Service) AssignRole(dto AssignRoleDTO) error {
	role, err := s.repo.GetRoleByID(dto.RoleID)
	if err != nil {
		return internal.ErrRoleNotFound
	}

	users := make([]*userdm.User, 0, len(dto.UserIDs))
	for _, id := range dto.UserIDs {
		u, err := s.repo.GetUserByID(id)
		if err != nil {
			return internal.ErrUserNotFound.WithDetails(map[string]string{"userId": id})
		}
		users = append(users, u)
	}

	for _, u := range users {
		has, err := s.repo.UserHasRole(u.ID, role.ID)
		if err != nil {
			return internal.NewInternalError("failed to check existing roles", err)
		}
		if has {
			continue
		}
		if err := s.repo.AppendUserRole(u.ID, role); err != nil {
			return internal.NewInternalError("failed to assign role", err)
		}
	}

	s.logger.Info("role assigned", "role", role.Name, "users", len(users))
	return nil
}

// BulkUploadRoles processes a CSV of employeeCode,roleName pairs. Each row
// gets its own result; already-assigned and unresolvable rows are skipped
// rather than failing the upload.
func (s *Service) BulkUploadRoles(csvData io.Reader) ([]BulkAssignResult, error) {
	reader := csv.NewReader(csvData)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, internal.NewValidationError("empty or unreadable CSV", internal.ErrCodeValidationFailed)
	}
	if len(header) < 2 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "employeeCode") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "roleName") {
		return nil, internal.NewValidationError(
			"CSV header must be: employeeCode,roleName",
			internal.ErrCodeValidationFailed,
		)
	}

	var results []BulkAssignResult
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			results = append(results, BulkAssignResult{
				Row:    rowNum,
				Status: BulkStatusSkipped,
				Reason: "malformed row",
			})
			continue
		}
		results = append(results, s.processBulkRow(rowNum, record))
	}

	s.logger.Info("bulk role upload processed", "rows", len(results))
	return results, nil
}

func (s *Service) processBulkRow(rowNum int, record []string) BulkAssignResult {
	result := BulkAssignResult{Row: rowNum}
	if len(record) < 2 {
		result.Status = BulkStatusSkipped
		result.Reason = "expected two columns"
		return result
	}

	result.EmployeeCode = strings.TrimSpace(record[0])
	result.RoleName = strings.TrimSpace(record[1])

	if result.EmployeeCode == "" || result.RoleName == "" {
		result.Status = BulkStatusSkipped
		result.Reason = "empty employee code or role name"
		return result
	}

	u, err := s.repo.GetUserByEmployeeCode(result.EmployeeCode)
	if err != nil {
		result.Status = BulkStatusSkipped
		result.Reason = "employee not found"
		return result
	}

	role, err := s.repo.GetRoleByName(result.RoleName)
	if err != nil {
		result.Status = BulkStatusSkipped
		result.Reason = "role not found"
		return result
	}

	has, err := s.repo.UserHasRole(u.ID, role.ID)
	if err != nil {
		result.Status = BulkStatusSkipped
		result.Reason = "failed to check existing roles"
		return result
	}
	if has {
		result.Status = BulkStatusSkipped
		result.Reason = "role already assigned"
		return result
	}

	if err := s.repo.AppendUserRole(u.ID, role); err != nil {
		result.Status = BulkStatusSkipped
		result.Reason = "failed to assign role"
		return result
	}

	result.Status = BulkStatusAssigned
	return result
}
