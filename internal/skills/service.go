package skills

import (
	"log/slog"

	"github.com/frahmantamala/skill-matrix/internal"
	skilldm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/skill"
)

type Repository interface {
	CreateSkill(s *skilldm.Skill) error
	GetSkillByID(id string) (*skilldm.Skill, error)
	GetSkillByName(name string) (*skilldm.Skill, error)
	ListSkills(search, category string) ([]*skilldm.Skill, error)
	UpdateSkill(s *skilldm.Skill) error
	DeleteSkill(id string) error

	CreateAssessment(a *skilldm.Assessment) error
	GetAssessmentByID(id string) (*skilldm.Assessment, error)
	GetAssessmentForUserSkill(userID, skillID string) (*skilldm.Assessment, error)
	ListAssessmentsByUser(userID string) ([]*skilldm.Assessment, error)
	UpdateAssessment(a *skilldm.Assessment) error
}

type ServiceAPI interface {
	CreateSkill(dto CreateSkillDTO) (*skilldm.Skill, error)
	GetSkill(id string) (*skilldm.Skill, error)
	ListSkills(search, category string) ([]*skilldm.Skill, error)
	UpdateSkill(id string, dto UpdateSkillDTO) (*skilldm.Skill, error)
	DeleteSkill(id string) error

	AddAssessment(userID string, dto AddAssessmentDTO) (*AssessmentView, error)
	UpdateAssessment(userID, assessmentID string, dto UpdateAssessmentDTO) (*AssessmentView, error)
	GetUserAssessments(userID string) ([]*AssessmentView, error)
}

// AssessmentView adds the derived gap and progress numbers to the raw row.
type AssessmentView struct {
	ID                string `json:"id"`
	UserID            string `json:"userId"`
	SkillID           string `json:"skillId"`
	SkillName         string `json:"skillName,omitempty"`
	CurrentLevel      string `json:"currentLevel"`
	ExpectedLevel     string `json:"expectedLevel"`
	Status            string `json:"status"`
	Feedback          string `json:"feedback,omitempty"`
	CertificationName string `json:"certificationName,omitempty"`
	CertificationURL  string `json:"certificationUrl,omitempty"`
	Gap               int    `json:"gap"`
	Progress          int    `json:"progress"`
	MeetsExpectation  bool   `json:"meetsExpectation"`
}

func toAssessmentView(a *skilldm.Assessment) *AssessmentView {
	v := &AssessmentView{
		ID:                a.ID,
		UserID:            a.UserID,
		SkillID:           a.SkillID,
		CurrentLevel:      string(a.CurrentLevel),
		ExpectedLevel:     string(a.ExpectedLevel),
		Status:            string(a.Status),
		Feedback:          a.Feedback,
		CertificationName: a.CertificationName,
		CertificationURL:  a.CertificationURL,
		Gap:               a.Gap(),
		Progress:          a.ProgressPercentage(),
		MeetsExpectation:  a.MeetsExpectation(),
	}
	if a.Skill != nil {
		v.SkillName = a.Skill.Name
	}
	return v
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

func (s *Service) CreateSkill(dto CreateSkillDTO) (*skilldm.Skill, error) {
	if _, err := s.repo.GetSkillByName(dto.Name); err == nil {
		return nil, internal.NewConflictError("Skill already exists", internal.ErrCodeValidationFailed)
	}

	expected := skilldm.SkillLevel(dto.ExpectedLevel)
	if dto.ExpectedLevel == "" {
		expected = skilldm.LevelIntermediate
	}

	sk := &skilldm.Skill{
		Name:          dto.Name,
		Description:   dto.Description,
		Category:      dto.Category,
		ExpectedLevel: expected,
	}
	if err := s.repo.CreateSkill(sk); err != nil {
		return nil, internal.NewInternalError("failed to create skill", err)
	}

	s.logger.Info("skill created", "skill", sk.Name)
	return sk, nil
}

func (s *Service) GetSkill(id string) (*skilldm.Skill, error) {
	sk, err := s.repo.GetSkillByID(id)
	if err != nil {
		return nil, internal.ErrSkillNotFound
	}
	return sk, nil
}

func (s *Service) ListSkills(search, category string) ([]*skilldm.Skill, error) {
	list, err := s.repo.ListSkills(search, category)
	if err != nil {
		return nil, internal.NewInternalError("failed to list skills", err)
	}
	return list, nil
}

func (s *Service) UpdateSkill(id string, dto UpdateSkillDTO) (*skilldm.Skill, error) {
	sk, err := s.repo.GetSkillByID(id)
	if err != nil {
		return nil, internal.ErrSkillNotFound
	}

	if dto.Description != nil {
		sk.Description = *dto.Description
	}
	if dto.Category != nil {
		sk.Category = *dto.Category
	}
	if dto.ExpectedLevel != nil {
		sk.ExpectedLevel = skilldm.SkillLevel(*dto.ExpectedLevel)
	}

	if err := s.repo.UpdateSkill(sk); err != nil {
		return nil, internal.NewInternalError("failed to update skill", err)
	}
	return sk, nil
}

func (s *Service) DeleteSkill(id string) error {
	if _, err := s.repo.GetSkillByID(id); err != nil {
		return internal.ErrSkillNotFound
	}
	if err := s.repo.DeleteSkill(id); err != nil {
		return internal.NewInternalError("failed to delete skill", err)
	}
	s.logger.Info("skill deleted", "skill_id", id)
	return nil
}

// AddAssessment records a new self-assessment. One row per (user, skill);
// the expected level is copied from the skill catalog at creation time.
func (s *Service) AddAssessment(userID string, dto AddAssessmentDTO) (*AssessmentView, error) {
	sk, err := s.repo.GetSkillByID(dto.SkillID)
	if err != nil {
		return nil, internal.ErrSkillNotFound
	}

	if existing, err := s.repo.GetAssessmentForUserSkill(userID, dto.SkillID); err == nil && existing != nil {
		return nil, internal.NewConflictError(
			"Assessment already exists for this skill",
			internal.ErrCodeValidationFailed,
		)
	}

	level := skilldm.SkillLevel(dto.CurrentLevel)
	if !level.Valid() {
		return nil, internal.NewValidationError("invalid skill level", internal.ErrCodeInvalidSkillLevel)
	}

	expected := sk.ExpectedLevel
	if !expected.Valid() {
		expected = skilldm.LevelIntermediate
	}

	a := &skilldm.Assessment{
		UserID:            userID,
		SkillID:           dto.SkillID,
		Skill:             sk,
		CurrentLevel:      level,
		ExpectedLevel:     expected,
		Status:            skilldm.StatusPending,
		CertificationName: dto.CertificationName,
		CertificationURL:  dto.CertificationURL,
	}
	if err := s.repo.CreateAssessment(a); err != nil {
		return nil, internal.NewInternalError("failed to create assessment", err)
	}

	s.logger.Info("assessment added", "user_id", userID, "skill_id", dto.SkillID, "level", level)
	return toAssessmentView(a), nil
}

// UpdateAssessment only touches rows owned by the caller.
func (s *Service) UpdateAssessment(userID, assessmentID string, dto UpdateAssessmentDTO) (*AssessmentView, error) {
	a, err := s.repo.GetAssessmentByID(assessmentID)
	if err != nil {
		return nil, internal.ErrAssessmentNotFound
	}
	if a.UserID != userID {
		return nil, internal.ErrAssessmentNotFound
	}

	if dto.CurrentLevel != nil {
		level := skilldm.SkillLevel(*dto.CurrentLevel)
		if !level.Valid() {
			return nil, internal.NewValidationError("invalid skill level", internal.ErrCodeInvalidSkillLevel)
		}
		a.CurrentLevel = level
	}
	if dto.Status != nil {
		a.Status = skilldm.AssessmentStatus(*dto.Status)
	}
	if dto.Feedback != nil {
		a.Feedback = *dto.Feedback
	}
	if dto.CertificationName != nil {
		a.CertificationName = *dto.CertificationName
	}
	if dto.CertificationURL != nil {
		a.CertificationURL = *dto.CertificationURL
	}

	if err := s.repo.UpdateAssessment(a); err != nil {
		return nil, internal.NewInternalError("failed to update assessment", err)
	}

	s.logger.Info("assessment updated", "assessment_id", assessmentID, "user_id", userID)
	return toAssessmentView(a), nil
}

func (s *Service) GetUserAssessments(userID string) ([]*AssessmentView, error) {
	rows, err := s.repo.ListAssessmentsByUser(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}
	views := make([]*AssessmentView, 0, len(rows))
	for _, a := range rows {
		views = append(views, toAssessmentView(a))
	}
	return views, nil
}
