package postgres

import (
	"gorm.io/gorm"

	helpdeskdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/helpdesk"
	skilldm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/skill"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) CountUsers() (int64, int64, error) {
	var total, active int64
	if err := r.db.Model(&userdm.User{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := r.db.Model(&userdm.User{}).
		Where("is_active = ?", true).
		Count(&active).Error
	if err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (r *DashboardRepository) CountDepartments() (int64, error) {
	var count int64
	err := r.db.Model(&userdm.User{}).
		Where("department <> ''").
		Distinct("department").
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountSkills() (int64, error) {
	var count int64
	err := r.db.Model(&skilldm.Skill{}).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) ListSkills() ([]*skilldm.Skill, error) {
	var skills []*skilldm.Skill
	err := r.db.Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *DashboardRepository) ListAllAssessments() ([]*skilldm.Assessment, error) {
	var rows []*skilldm.Assessment
	err := r.db.Preload("Skill").Find(&rows).Error
	return rows, err
}

func (r *DashboardRepository) ListAssessmentsByUsers(userIDs []string) ([]*skilldm.Assessment, error) {
	var rows []*skilldm.Assessment
	err := r.db.
		Preload("Skill").
		Where("user_id IN ?", userIDs).
		Find(&rows).Error
	return rows, err
}

func (r *DashboardRepository) GetAssessmentByID(id string) (*skilldm.Assessment, error) {
	var a skilldm.Assessment
	if err := r.db.Preload("Skill").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *DashboardRepository) UpdateAssessment(a *skilldm.Assessment) error {
	return r.db.Save(a).Error
}

func (r *DashboardRepository) GetUserByID(id string) (*userdm.User, error) {
	var u userdm.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *DashboardRepository) ListActiveUsers() ([]*userdm.User, error) {
	var users []*userdm.User
	err := r.db.
		Where("is_active = ?", true).
		Order("employee_name ASC").
		Find(&users).Error
	return users, err
}

func (r *DashboardRepository) ListTeamMembers(managerID string) ([]*userdm.User, error) {
	var users []*userdm.User
	err := r.db.
		Where("(reporting_manager_id = ? OR functional_manager_id = ?) AND is_active = ?",
			managerID, managerID, true).
		Order("employee_name ASC").
		Find(&users).Error
	return users, err
}

func (r *DashboardRepository) ListTicketsBySubmitters(userIDs []string) ([]*helpdeskdm.Ticket, error) {
	var tickets []*helpdeskdm.Ticket
	err := r.db.
		Where("submitted_by_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}
