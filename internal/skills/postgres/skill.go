package postgres

import (
	"gorm.io/gorm"

	skilldm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/skill"
)

type SkillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) CreateSkill(s *skilldm.Skill) error {
	return r.db.Create(s).Error
}

func (r *SkillRepository) GetSkillByID(id string) (*skilldm.Skill, error) {
	var s skilldm.Skill
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SkillRepository) GetSkillByName(name string) (*skilldm.Skill, error) {
	var s skilldm.Skill
	if err := r.db.Where("name = ?", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SkillRepository) ListSkills(search, category string) ([]*skilldm.Skill, error) {
	query := r.db.Model(&skilldm.Skill{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var skills []*skilldm.Skill
	err := query.Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) UpdateSkill(s *skilldm.Skill) error {
	return r.db.Save(s).Error
}

func (r *SkillRepository) DeleteSkill(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("skill_id = ?", id).Delete(&skilldm.Assessment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&skilldm.Skill{}).Error
	})
}

func (r *SkillRepository) CreateAssessment(a *skilldm.Assessment) error {
	return r.db.Create(a).Error
}

func (r *SkillRepository) GetAssessmentByID(id string) (*skilldm.Assessment, error) {
	var a skilldm.Assessment
	if err := r.db.Preload("Skill").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SkillRepository) GetAssessmentForUserSkill(userID, skillID string) (*skilldm.Assessment, error) {
	var a skilldm.Assessment
	err := r.db.Where("user_id = ? AND skill_id = ?", userID, skillID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SkillRepository) ListAssessmentsByUser(userID string) ([]*skilldm.Assessment, error) {
	var rows []*skilldm.Assessment
	err := r.db.Preload("Skill").
		Where("user_id = ?", userID).
		Order("assessment_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *SkillRepository) UpdateAssessment(a *skilldm.Assessment) error {
	return r.db.Save(a).Error
}
