package dashboard

import (
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/skill-matrix/internal"
	helpdeskdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/helpdesk"
	skilldm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/skill"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/pkg/logger"
)

func TestDashboard(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Dashboard Module Suite")
}

type mockDashboardRepository struct {
	users       map[string]*userdm.User
	skills      map[string]*skilldm.Skill
	assessments map[string]*skilldm.Assessment
	tickets     []*helpdeskdm.Ticket
}

func newMockDashboardRepository() *mockDashboardRepository {
	return &mockDashboardRepository{
		users:       map[string]*userdm.User{},
		skills:      map[string]*skilldm.Skill{},
		assessments: map[string]*skilldm.Assessment{},
	}
}

func (m *mockDashboardRepository) CountUsers() (int64, int64, error) {
	var total, active int64
	for _, u := range m.users {
		total++
		if u.IsActive {
			active++
		}
	}
	return total, active, nil
}

func (m *mockDashboardRepository) CountDepartments() (int64, error) {
	seen := map[string]bool{}
	for _, u := range m.users {
		if u.Department != "" {
			seen[u.Department] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *mockDashboardRepository) CountSkills() (int64, error) {
	return int64(len(m.skills)), nil
}

func (m *mockDashboardRepository) ListSkills() ([]*skilldm.Skill, error) {
	var out []*skilldm.Skill
	for _, s := range m.skills {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockDashboardRepository) ListAllAssessments() ([]*skilldm.Assessment, error) {
	var out []*skilldm.Assessment
	for _, a := range m.assessments {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockDashboardRepository) ListAssessmentsByUsers(userIDs []string) ([]*skilldm.Assessment, error) {
	wanted := map[string]bool{}
	for _, id := range userIDs {
		wanted[id] = true
	}
	var out []*skilldm.Assessment
	for _, a := range m.assessments {
		if wanted[a.UserID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockDashboardRepository) GetAssessmentByID(id string) (*skilldm.Assessment, error) {
	if a, ok := m.assessments[id]; ok {
		return a, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockDashboardRepository) UpdateAssessment(a *skilldm.Assessment) error {
	m.assessments[a.ID] = a
	return nil
}

func (m *mockDashboardRepository) GetUserByID(id string) (*userdm.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockDashboardRepository) ListActiveUsers() ([]*userdm.User, error) {
	var out []*userdm.User
	for _, u := range m.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockDashboardRepository) ListTeamMembers(managerID string) ([]*userdm.User, error) {
	var out []*userdm.User
	for _, u := range m.users {
		if !u.IsActive {
			continue
		}
		reporting := u.ReportingManagerID != nil && *u.ReportingManagerID == managerID
		functional := u.FunctionalManagerID != nil && *u.FunctionalManagerID == managerID
		if reporting || functional {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockDashboardRepository) ListTicketsBySubmitters(userIDs []string) ([]*helpdeskdm.Ticket, error) {
	wanted := map[string]bool{}
	for _, id := range userIDs {
		wanted[id] = true
	}
	var out []*helpdeskdm.Ticket
	for _, t := range m.tickets {
		if wanted[t.SubmittedByID] {
			out = append(out, t)
		}
	}
	return out, nil
}

var _ = ginkgo.Describe("DashboardService", func() {
	var (
		service  *Service
		mockRepo *mockDashboardRepository
	)

	addUser := func(id, name, dept string, active bool) *userdm.User {
		u := &userdm.User{ID: id, EmployeeName: name, Department: dept, IsActive: active}
		mockRepo.users[id] = u
		return u
	}

	addSkill := func(id, name string, expected skilldm.SkillLevel) *skilldm.Skill {
		s := &skilldm.Skill{ID: id, Name: name, ExpectedLevel: expected}
		mockRepo.skills[id] = s
		return s
	}

	addAssessment := func(id, userID string, s *skilldm.Skill, current skilldm.SkillLevel) *skilldm.Assessment {
		a := &skilldm.Assessment{
			ID:            id,
			UserID:        userID,
			SkillID:       s.ID,
			Skill:         s,
			CurrentLevel:  current,
			ExpectedLevel: s.ExpectedLevel,
			Status:        skilldm.StatusPending,
		}
		mockRepo.assessments[id] = a
		return a
	}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockDashboardRepository()
		service = NewService(logger.LoggerWrapper(), mockRepo)
	})

	ginkgo.Describe("GetOrgMetrics", func() {
		ginkgo.It("should return zeros for an empty company", func() {
			metrics, err := service.GetOrgMetrics()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(metrics.TotalEmployees).To(gomega.BeZero())
			gomega.Expect(metrics.AverageProgress).To(gomega.BeZero())
		})

		ginkgo.It("should count employees, departments and assessments", func() {
			addUser("u1", "Asha", "Engineering", true)
			addUser("u2", "Bilal", "Engineering", true)
			addUser("u3", "Chitra", "Support", false)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			addAssessment("a1", "u1", golang, skilldm.LevelAdvanced)

			metrics, err := service.GetOrgMetrics()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(metrics.TotalEmployees).To(gomega.Equal(int64(3)))
			gomega.Expect(metrics.ActiveEmployees).To(gomega.Equal(int64(2)))
			gomega.Expect(metrics.InactiveEmployees).To(gomega.Equal(int64(1)))
			gomega.Expect(metrics.Departments).To(gomega.Equal(int64(2)))
			gomega.Expect(metrics.Assessments).To(gomega.Equal(int64(1)))
			gomega.Expect(metrics.AverageProgress).To(gomega.Equal(100))
			gomega.Expect(metrics.MeetingRate).To(gomega.Equal(100))
		})

		ginkgo.It("should round the meeting rate over all assessments", func() {
			addUser("u1", "Asha", "Engineering", true)
			addUser("u2", "Bilal", "Engineering", true)
			addUser("u3", "Chitra", "Support", true)
			golang := addSkill("s1", "Go", skilldm.LevelIntermediate)
			addAssessment("a1", "u1", golang, skilldm.LevelAdvanced)
			addAssessment("a2", "u2", golang, skilldm.LevelBeginner)
			addAssessment("a3", "u3", golang, skilldm.LevelBeginner)

			metrics, err := service.GetOrgMetrics()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(metrics.MeetingRate).To(gomega.Equal(33))
		})
	})

	ginkgo.Describe("GetSkillGapAnalysis", func() {
		ginkgo.It("should average levels and gaps per skill", func() {
			addUser("u1", "Asha", "Engineering", true)
			addUser("u2", "Bilal", "Engineering", true)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)
			addAssessment("a2", "u2", golang, skilldm.LevelAdvanced)

			entries, err := service.GetSkillGapAnalysis()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entries).To(gomega.HaveLen(1))
			gomega.Expect(entries[0].Assessments).To(gomega.Equal(2))
			gomega.Expect(entries[0].AverageLevel).To(gomega.Equal(2.0))
			gomega.Expect(entries[0].AverageGap).To(gomega.Equal(1.0))
			gomega.Expect(entries[0].BelowExpectation).To(gomega.Equal(1))
		})

		ginkgo.It("should include skills nobody assessed with zero averages", func() {
			addSkill("s1", "Kubernetes", skilldm.LevelIntermediate)

			entries, err := service.GetSkillGapAnalysis()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entries).To(gomega.HaveLen(1))
			gomega.Expect(entries[0].Assessments).To(gomega.BeZero())
			gomega.Expect(entries[0].AverageLevel).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("GetSkillGapRows", func() {
		ginkgo.It("should emit one row per employee and skill", func() {
			addUser("u1", "Asha", "Engineering", true)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			sql := addSkill("s2", "SQL", skilldm.LevelIntermediate)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)
			addAssessment("a2", "u1", sql, skilldm.LevelIntermediate)

			rows, err := service.GetSkillGapRows()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(2))

			bySkill := map[string]*SkillGapRow{}
			for _, row := range rows {
				bySkill[row.SkillName] = row
			}
			gomega.Expect(bySkill["Go"].Gap).To(gomega.Equal(2))
			gomega.Expect(bySkill["Go"].EmployeeName).To(gomega.Equal("Asha"))
			gomega.Expect(bySkill["SQL"].Gap).To(gomega.BeZero())
		})

		ginkgo.It("should exclude inactive employees", func() {
			addUser("u1", "Asha", "Engineering", false)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)

			rows, err := service.GetSkillGapRows()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetDepartmentHeatmap", func() {
		ginkgo.It("should average current levels per department and skill", func() {
			addUser("u1", "Asha", "Engineering", true)
			addUser("u2", "Bilal", "Engineering", true)
			addUser("u3", "Chitra", "Support", true)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)
			addAssessment("a2", "u2", golang, skilldm.LevelAdvanced)
			addAssessment("a3", "u3", golang, skilldm.LevelIntermediate)

			cells, err := service.GetDepartmentHeatmap()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cells).To(gomega.HaveLen(2))

			byDept := map[string]*HeatmapCell{}
			for _, c := range cells {
				byDept[c.Department] = c
			}
			gomega.Expect(byDept["Engineering"].AverageLevel).To(gomega.Equal(2.0))
			gomega.Expect(byDept["Engineering"].Employees).To(gomega.Equal(2))
			gomega.Expect(byDept["Engineering"].Expected).To(gomega.Equal(3))
			gomega.Expect(byDept["Support"].AverageLevel).To(gomega.Equal(2.0))
		})

		ginkgo.It("should skip assessments of inactive employees", func() {
			addUser("u1", "Asha", "Engineering", false)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			addAssessment("a1", "u1", golang, skilldm.LevelAdvanced)

			cells, err := service.GetDepartmentHeatmap()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cells).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetTeamOverview", func() {
		ginkgo.It("should summarize each report with skills and progress", func() {
			mgr := "mgr-1"
			report := addUser("u1", "Asha", "Engineering", true)
			report.ReportingManagerID = &mgr
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			sql := addSkill("s2", "SQL", skilldm.LevelIntermediate)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)
			addAssessment("a2", "u1", sql, skilldm.LevelIntermediate)

			team, err := service.GetTeamOverview(mgr)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(team).To(gomega.HaveLen(1))
			gomega.Expect(team[0].SkillCount).To(gomega.Equal(2))
			gomega.Expect(team[0].SkillNames).To(gomega.ConsistOf("Go", "SQL"))
			gomega.Expect(team[0].MeetingCount).To(gomega.Equal(1))
			// (33 + 100) / 2 rounds to 67
			gomega.Expect(team[0].AverageProgress).To(gomega.Equal(67))
		})

		ginkgo.It("should return an empty team for a manager with no reports", func() {
			team, err := service.GetTeamOverview("nobody")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(team).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetTeamSkillOverview", func() {
		ginkgo.It("should count members per skill", func() {
			mgr := "mgr-1"
			a := addUser("u1", "Asha", "Engineering", true)
			a.ReportingManagerID = &mgr
			b := addUser("u2", "Bilal", "Engineering", true)
			b.ReportingManagerID = &mgr
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			sql := addSkill("s2", "SQL", skilldm.LevelIntermediate)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)
			addAssessment("a2", "u2", golang, skilldm.LevelAdvanced)
			addAssessment("a3", "u2", sql, skilldm.LevelIntermediate)

			counts, err := service.GetTeamSkillOverview(mgr)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(counts).To(gomega.HaveLen(2))

			byName := map[string]*TeamSkillCount{}
			for _, c := range counts {
				byName[c.SkillName] = c
			}
			gomega.Expect(byName["Go"].Employees).To(gomega.Equal(2))
			gomega.Expect(byName["SQL"].Employees).To(gomega.Equal(1))
		})
	})

	ginkgo.Describe("GetManagerDashboard", func() {
		ginkgo.It("should report meeting rate and lagging skills for the team", func() {
			mgr := "mgr-1"
			a := addUser("u1", "Asha", "Engineering", true)
			a.ReportingManagerID = &mgr
			b := addUser("u2", "Bilal", "Engineering", true)
			b.ReportingManagerID = &mgr
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			sql := addSkill("s2", "SQL", skilldm.LevelIntermediate)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)
			addAssessment("a2", "u2", golang, skilldm.LevelAdvanced)
			addAssessment("a3", "u2", sql, skilldm.LevelIntermediate)
			mockRepo.tickets = []*helpdeskdm.Ticket{
				{ID: "t1", SubmittedByID: "u1", Status: helpdeskdm.StatusOpen},
			}

			dash, err := service.GetManagerDashboard(mgr)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(dash.TeamSize).To(gomega.Equal(2))
			gomega.Expect(dash.TeamTickets).To(gomega.Equal(1))
			// 2 of 3 assessments meet expectation
			gomega.Expect(dash.MeetingRate).To(gomega.Equal(67))
			gomega.Expect(dash.SkillsNeedingAttention).To(gomega.Equal(1))
		})
	})

	ginkgo.Describe("GetTeamUsersBySkill", func() {
		ginkgo.It("should keep only members assessed on that skill", func() {
			mgr := "mgr-1"
			a := addUser("u1", "Asha", "Engineering", true)
			a.ReportingManagerID = &mgr
			b := addUser("u2", "Bilal", "Engineering", true)
			b.ReportingManagerID = &mgr
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			addAssessment("a1", "u1", golang, skilldm.LevelAdvanced)

			team, err := service.GetTeamUsersBySkill(mgr, "s1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(team).To(gomega.HaveLen(1))
			gomega.Expect(team[0].UserID).To(gomega.Equal("u1"))
		})
	})

	ginkgo.Describe("GetEmployeeOverview", func() {
		ginkgo.It("should compute gap and progress per assessment", func() {
			addUser("u1", "Asha", "Engineering", true)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)

			overview, err := service.GetEmployeeOverview("u1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(overview.Assessments).To(gomega.HaveLen(1))
			gomega.Expect(overview.Assessments[0].Gap).To(gomega.Equal(2))
			gomega.Expect(overview.Assessments[0].Progress).To(gomega.Equal(33))
			gomega.Expect(overview.Assessments[0].MeetsExpectation).To(gomega.BeFalse())
			gomega.Expect(overview.OverallProgress).To(gomega.Equal(33))
		})

		ginkgo.It("should break assessments down by status", func() {
			addUser("u1", "Asha", "Engineering", true)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			sql := addSkill("s2", "SQL", skilldm.LevelIntermediate)
			k8s := addSkill("s3", "Kubernetes", skilldm.LevelBeginner)
			addAssessment("a1", "u1", golang, skilldm.LevelBeginner)
			done := addAssessment("a2", "u1", sql, skilldm.LevelIntermediate)
			done.Status = skilldm.StatusCompleted
			active := addAssessment("a3", "u1", k8s, skilldm.LevelBeginner)
			active.Status = skilldm.StatusInProgress

			overview, err := service.GetEmployeeOverview("u1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(overview.Statuses.Total).To(gomega.Equal(3))
			gomega.Expect(overview.Statuses.Pending).To(gomega.Equal(1))
			gomega.Expect(overview.Statuses.InProgress).To(gomega.Equal(1))
			gomega.Expect(overview.Statuses.Completed).To(gomega.Equal(1))
		})

		ginkgo.It("should fail for an unknown employee", func() {
			_, err := service.GetEmployeeOverview("ghost")

			gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("GetEmployeeDashboard", func() {
		ginkgo.It("should count only open and in progress tickets", func() {
			addUser("u1", "Asha", "Engineering", true)
			mockRepo.tickets = []*helpdeskdm.Ticket{
				{ID: "t1", SubmittedByID: "u1", Status: helpdeskdm.StatusOpen},
				{ID: "t2", SubmittedByID: "u1", Status: helpdeskdm.StatusInProgress},
				{ID: "t3", SubmittedByID: "u1", Status: helpdeskdm.StatusResolved},
				{ID: "t4", SubmittedByID: "someone-else", Status: helpdeskdm.StatusOpen},
			}

			dash, err := service.GetEmployeeDashboard("u1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(dash.OpenTickets).To(gomega.Equal(2))
		})
	})

	ginkgo.Describe("GetDepartmentMetrics", func() {
		ginkgo.It("should return zero values for an unknown department", func() {
			metrics, err := service.GetDepartmentMetrics("Atlantis")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(metrics.Headcount).To(gomega.BeZero())
			gomega.Expect(metrics.AverageProgress).To(gomega.BeZero())
		})

		ginkgo.It("should aggregate only that department", func() {
			addUser("u1", "Asha", "Engineering", true)
			addUser("u2", "Bilal", "Support", true)
			golang := addSkill("s1", "Go", skilldm.LevelAdvanced)
			addAssessment("a1", "u1", golang, skilldm.LevelAdvanced)
			addAssessment("a2", "u2", golang, skilldm.LevelBeginner)

			metrics, err := service.GetDepartmentMetrics("Engineering")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(metrics.Headcount).To(gomega.Equal(1))
			gomega.Expect(metrics.Assessments).To(gomega.Equal(1))
			gomega.Expect(metrics.AverageProgress).To(gomega.Equal(100))
		})
	})

	ginkgo.Describe("UpdateSkillExpectation", func() {
		var mgr string

		ginkgo.BeforeEach(func() {
			mgr = "mgr-1"
			report := addUser("u1", "Asha", "Engineering", true)
			report.ReportingManagerID = &mgr
			golang := addSkill("s1", "Go", skilldm.LevelIntermediate)
			addAssessment("a1", "u1", golang, skilldm.LevelIntermediate)
		})

		ginkgo.It("should let the manager raise the bar for a report", func() {
			entry, err := service.UpdateSkillExpectation(mgr, "a1", "advanced")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entry.ExpectedLevel).To(gomega.Equal("advanced"))
			gomega.Expect(entry.Gap).To(gomega.Equal(1))
			gomega.Expect(entry.MeetsExpectation).To(gomega.BeFalse())
		})

		ginkgo.It("should reject a manager who does not manage the owner", func() {
			_, err := service.UpdateSkillExpectation("other-mgr", "a1", "advanced")

			gomega.Expect(err).To(gomega.Equal(internal.ErrNotTeamMember))
			gomega.Expect(mockRepo.assessments["a1"].ExpectedLevel).To(gomega.Equal(skilldm.LevelIntermediate))
		})

		ginkgo.It("should accept a functional manager", func() {
			fmgr := "fmgr-1"
			mockRepo.users["u1"].FunctionalManagerID = &fmgr

			_, err := service.UpdateSkillExpectation(fmgr, "a1", "advanced")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should reject an unknown level", func() {
			_, err := service.UpdateSkillExpectation(mgr, "a1", "wizard")

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidSkillLevel))
		})

		ginkgo.It("should fail for an unknown assessment", func() {
			_, err := service.UpdateSkillExpectation(mgr, "ghost", "advanced")

			gomega.Expect(err).To(gomega.Equal(internal.ErrAssessmentNotFound))
		})
	})
})
