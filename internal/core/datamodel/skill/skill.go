package skill

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkillLevel is a fixed 3-point ordinal scale.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
)

// Ordinal maps a level to its position on the scale; unknown values map to 0.
func (l SkillLevel) Ordinal() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	}
	return 0
}

func (l SkillLevel) Valid() bool { return l.Ordinal() != 0 }

// LevelFromOrdinal is the inverse of Ordinal; out-of-range values fall back
// to intermediate.
func LevelFromOrdinal(n int) SkillLevel {
	switch n {
	case 1:
		return LevelBeginner
	case 2:
		return LevelIntermediate
	case 3:
		return LevelAdvanced
	}
	return LevelIntermediate
}

type AssessmentStatus string

const (
	StatusPending    AssessmentStatus = "pending"
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
)

type Skill struct {
	ID            string       `gorm:"primaryKey;column:id"`
	Name          string       `gorm:"column:name;uniqueIndex;not null"`
	Category      string       `gorm:"column:category"`
	Description   string       `gorm:"column:description"`
	ExpectedLevel SkillLevel   `gorm:"column:expected_level;default:intermediate"`
	Assessments   []Assessment `gorm:"foreignKey:SkillID"`
	CreatedAt     time.Time    `gorm:"column:created_at"`
	UpdatedAt     time.Time    `gorm:"column:updated_at"`
}

func (Skill) TableName() string { return "skills" }

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Assessment is one (user, skill) row in the ledger; all gap and progress
// numbers derive from it.
type Assessment struct {
	ID      string `gorm:"primaryKey;column:id"`
	UserID  string `gorm:"column:user_id;not null;index"`
	SkillID string `gorm:"column:skill_id;not null;index"`
	Skill   *Skill `gorm:"foreignKey:SkillID"`

	CurrentLevel  SkillLevel       `gorm:"column:current_level;default:beginner"`
	ExpectedLevel SkillLevel       `gorm:"column:expected_level;default:intermediate"`
	Status        AssessmentStatus `gorm:"column:status;default:pending"`

	Feedback          string `gorm:"column:feedback"`
	CertificationName string `gorm:"column:certification_name"`
	CertificationURL  string `gorm:"column:certification_url"`

	AssessmentDate time.Time `gorm:"column:assessment_date;autoCreateTime"`
}

func (Assessment) TableName() string { return "skill_assessments" }

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Gap is expected ordinal minus current ordinal; positive means the employee
// is below expectation.
func (a *Assessment) Gap() int {
	return a.ExpectedLevel.Ordinal() - a.CurrentLevel.Ordinal()
}

// ProgressPercentage is round(current/expected * 100).
func (a *Assessment) ProgressPercentage() int {
	expected := a.ExpectedLevel.Ordinal()
	if expected == 0 {
		return 0
	}
	return int(math.Round(float64(a.CurrentLevel.Ordinal()) / float64(expected) * 100))
}

func (a *Assessment) MeetsExpectation() bool {
	return a.CurrentLevel.Ordinal() >= a.ExpectedLevel.Ordinal()
}
