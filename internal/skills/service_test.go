package skills

import (
	"errors"
	"fmt"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/skill-matrix/internal"
	skilldm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/skill"
	"github.com/frahmantamala/skill-matrix/pkg/logger"
)

func TestSkills(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Skills Module Suite")
}

type mockSkillRepository struct {
	skills      map[string]*skilldm.Skill
	assessments map[string]*skilldm.Assessment
	nextID      int
}

func newMockSkillRepository() *mockSkillRepository {
	return &mockSkillRepository{
		skills:      map[string]*skilldm.Skill{},
		assessments: map[string]*skilldm.Assessment{},
		nextID:      1,
	}
}

func (m *mockSkillRepository) addSkill(s *skilldm.Skill) *skilldm.Skill {
	if s.ID == "" {
		s.ID = fmt.Sprintf("skill-%d", m.nextID)
		m.nextID++
	}
	m.skills[s.ID] = s
	return s
}

func (m *mockSkillRepository) CreateSkill(s *skilldm.Skill) error {
	m.addSkill(s)
	return nil
}

func (m *mockSkillRepository) GetSkillByID(id string) (*skilldm.Skill, error) {
	if s, ok := m.skills[id]; ok {
		return s, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockSkillRepository) GetSkillByName(name string) (*skilldm.Skill, error) {
	for _, s := range m.skills {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockSkillRepository) ListSkills(search, category string) ([]*skilldm.Skill, error) {
	var out []*skilldm.Skill
	for _, s := range m.skills {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSkillRepository) UpdateSkill(s *skilldm.Skill) error {
	m.skills[s.ID] = s
	return nil
}

func (m *mockSkillRepository) DeleteSkill(id string) error {
	delete(m.skills, id)
	return nil
}

func (m *mockSkillRepository) CreateAssessment(a *skilldm.Assessment) error {
	if a.ID == "" {
		a.ID = fmt.Sprintf("assess-%d", m.nextID)
		m.nextID++
	}
	m.assessments[a.ID] = a
	return nil
}

func (m *mockSkillRepository) GetAssessmentByID(id string) (*skilldm.Assessment, error) {
	if a, ok := m.assessments[id]; ok {
		return a, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockSkillRepository) GetAssessmentForUserSkill(userID, skillID string) (*skilldm.Assessment, error) {
	for _, a := range m.assessments {
		if a.UserID == userID && a.SkillID == skillID {
			return a, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockSkillRepository) ListAssessmentsByUser(userID string) ([]*skilldm.Assessment, error) {
	var out []*skilldm.Assessment
	for _, a := range m.assessments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockSkillRepository) UpdateAssessment(a *skilldm.Assessment) error {
	m.assessments[a.ID] = a
	return nil
}

var _ = ginkgo.Describe("SkillsService", func() {
	var (
		service  *Service
		mockRepo *mockSkillRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockSkillRepository()
		service = NewService(logger.LoggerWrapper(), mockRepo)
	})

	ginkgo.Describe("CreateSkill", func() {
		ginkgo.It("should default the expected level to intermediate", func() {
			sk, err := service.CreateSkill(CreateSkillDTO{Name: "Go"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sk.ExpectedLevel).To(gomega.Equal(skilldm.LevelIntermediate))
		})

		ginkgo.It("should reject a duplicate skill name", func() {
			mockRepo.addSkill(&skilldm.Skill{Name: "Go"})

			_, err := service.CreateSkill(CreateSkillDTO{Name: "Go"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeConflict))
		})
	})

	ginkgo.Describe("AddAssessment", func() {
		var goSkill *skilldm.Skill

		ginkgo.BeforeEach(func() {
			goSkill = mockRepo.addSkill(&skilldm.Skill{
				Name:          "Go",
				ExpectedLevel: skilldm.LevelAdvanced,
			})
		})

		ginkgo.It("should start pending with the skill's expected level", func() {
			view, err := service.AddAssessment("u-1", AddAssessmentDTO{
				SkillID:      goSkill.ID,
				CurrentLevel: "beginner",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Status).To(gomega.Equal("pending"))
			gomega.Expect(view.ExpectedLevel).To(gomega.Equal("advanced"))
		})

		ginkgo.It("should compute gap and progress for beginner vs advanced", func() {
			view, err := service.AddAssessment("u-1", AddAssessmentDTO{
				SkillID:      goSkill.ID,
				CurrentLevel: "beginner",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Gap).To(gomega.Equal(2))
			gomega.Expect(view.Progress).To(gomega.Equal(33))
			gomega.Expect(view.MeetsExpectation).To(gomega.BeFalse())
		})

		ginkgo.It("should mark expectation met at or above the expected level", func() {
			view, err := service.AddAssessment("u-1", AddAssessmentDTO{
				SkillID:      goSkill.ID,
				CurrentLevel: "advanced",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Gap).To(gomega.Equal(0))
			gomega.Expect(view.Progress).To(gomega.Equal(100))
			gomega.Expect(view.MeetsExpectation).To(gomega.BeTrue())
		})

		ginkgo.It("should allow only one assessment per skill per user", func() {
			_, err := service.AddAssessment("u-1", AddAssessmentDTO{
				SkillID:      goSkill.ID,
				CurrentLevel: "beginner",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.AddAssessment("u-1", AddAssessmentDTO{
				SkillID:      goSkill.ID,
				CurrentLevel: "intermediate",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeConflict))
		})

		ginkgo.It("should fail for an unknown skill", func() {
			_, err := service.AddAssessment("u-1", AddAssessmentDTO{
				SkillID:      "no-such-skill",
				CurrentLevel: "beginner",
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrSkillNotFound))
		})
	})

	ginkgo.Describe("UpdateAssessment", func() {
		var assessmentID string

		ginkgo.BeforeEach(func() {
			sk := mockRepo.addSkill(&skilldm.Skill{Name: "Go", ExpectedLevel: skilldm.LevelAdvanced})
			view, err := service.AddAssessment("u-1", AddAssessmentDTO{
				SkillID:      sk.ID,
				CurrentLevel: "beginner",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			assessmentID = view.ID
		})

		ginkgo.It("should update the level and recompute derived numbers", func() {
			level := "intermediate"
			view, err := service.UpdateAssessment("u-1", assessmentID, UpdateAssessmentDTO{
				CurrentLevel: &level,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Gap).To(gomega.Equal(1))
			gomega.Expect(view.Progress).To(gomega.Equal(67))
		})

		ginkgo.It("should hide other users' assessments behind not found", func() {
			level := "advanced"
			_, err := service.UpdateAssessment("intruder", assessmentID, UpdateAssessmentDTO{
				CurrentLevel: &level,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrAssessmentNotFound))
		})
	})
})
