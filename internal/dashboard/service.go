package dashboard

import (
	"log/slog"
	"math"

	"github.com/frahmantamala/skill-matrix/internal"
	helpdeskdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/helpdesk"
	skilldm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/skill"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

// Expected ordinal for heatmap cells: the top of the 3-point scale, fixed so
// departments are comparable regardless of per-skill expectations.
const heatmapExpected = 3

type Repository interface {
	CountUsers() (total int64, active int64, err error)
	CountDepartments() (int64, error)
	CountSkills() (int64, error)
	ListSkills() ([]*skilldm.Skill, error)
	ListAllAssessments() ([]*skilldm.Assessment, error)
	ListAssessmentsByUsers(userIDs []string) ([]*skilldm.Assessment, error)
	GetAssessmentByID(id string) (*skilldm.Assessment, error)
	UpdateAssessment(a *skilldm.Assessment) error

	GetUserByID(id string) (*userdm.User, error)
	ListActiveUsers() ([]*userdm.User, error)
	ListTeamMembers(managerID string) ([]*userdm.User, error)

	ListTicketsBySubmitters(userIDs []string) ([]*helpdeskdm.Ticket, error)
}

type ServiceAPI interface {
	GetOrgMetrics() (*OrgMetrics, error)
	GetSkillGapAnalysis() ([]*SkillGapEntry, error)
	GetSkillGapRows() ([]*SkillGapRow, error)
	GetDepartmentHeatmap() ([]*HeatmapCell, error)
	GetSkillDirectory() ([]*SkillDirectoryEntry, error)
	GetEmployeeMatrix() ([]*MatrixRow, error)
	GetDepartmentMetrics(department string) (*DepartmentMetrics, error)
	GetAdminDashboard() (*AdminDashboard, error)

	GetTeamOverview(managerID string) ([]*MemberSummary, error)
	GetTeamSkillOverview(managerID string) ([]*TeamSkillCount, error)
	GetTeamUsersBySkill(managerID, skillID string) ([]*MemberSummary, error)
	GetManagerDashboard(managerID string) (*ManagerDashboard, error)
	GetTeamTickets(managerID string) ([]*helpdeskdm.Ticket, error)

	GetEmployeeOverview(userID string) (*EmployeeOverview, error)
	GetEmployeeDashboard(userID string) (*EmployeeDashboard, error)

	UpdateSkillExpectation(managerID, assessmentID, expectedLevel string) (*AssessmentEntry, error)
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

func (s *Service) GetOrgMetrics() (*OrgMetrics, error) {
	total, active, err := s.repo.CountUsers()
	if err != nil {
		return nil, internal.NewInternalError("failed to count users", err)
	}
	departments, err := s.repo.CountDepartments()
	if err != nil {
		return nil, internal.NewInternalError("failed to count departments", err)
	}
	skills, err := s.repo.CountSkills()
	if err != nil {
		return nil, internal.NewInternalError("failed to count skills", err)
	}
	assessments, err := s.repo.ListAllAssessments()
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	return &OrgMetrics{
		TotalEmployees:    total,
		ActiveEmployees:   active,
		InactiveEmployees: total - active,
		Departments:       departments,
		Skills:            skills,
		Assessments:       int64(len(assessments)),
		AverageProgress:   averageProgress(assessments),
		MeetingRate:       meetingRate(assessments),
	}, nil
}

// GetSkillGapAnalysis aggregates every skill's assessments into average
// level, average gap and how many employees sit below expectation.
func (s *Service) GetSkillGapAnalysis() ([]*SkillGapEntry, error) {
	skills, err := s.repo.ListSkills()
	if err != nil {
		return nil, internal.NewInternalError("failed to list skills", err)
	}
	assessments, err := s.repo.ListAllAssessments()
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	bySkill := make(map[string][]*skilldm.Assessment)
	for _, a := range assessments {
		bySkill[a.SkillID] = append(bySkill[a.SkillID], a)
	}

	entries := make([]*SkillGapEntry, 0, len(skills))
	for _, sk := range skills {
		rows := bySkill[sk.ID]
		entry := &SkillGapEntry{
			SkillID:     sk.ID,
			SkillName:   sk.Name,
			Assessments: len(rows),
		}
		if len(rows) > 0 {
			var levelSum, gapSum int
			for _, a := range rows {
				levelSum += a.CurrentLevel.Ordinal()
				gapSum += a.Gap()
				if !a.MeetsExpectation() {
					entry.BelowExpectation++
				}
			}
			entry.AverageLevel = round2(float64(levelSum) / float64(len(rows)))
			entry.AverageGap = round2(float64(gapSum) / float64(len(rows)))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetSkillGapRows lists every active employee's assessments with their gap,
// one row per (employee, skill) pair.
func (s *Service) GetSkillGapRows() ([]*SkillGapRow, error) {
	users, err := s.repo.ListActiveUsers()
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	assessments, err := s.repo.ListAllAssessments()
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	byUser := make(map[string]*userdm.User, len(users))
	for _, u := range users {
		byUser[u.ID] = u
	}

	rows := make([]*SkillGapRow, 0, len(assessments))
	for _, a := range assessments {
		u, ok := byUser[a.UserID]
		if !ok {
			continue
		}
		row := &SkillGapRow{
			UserID:        u.ID,
			EmployeeName:  u.EmployeeName,
			Department:    u.Department,
			SkillID:       a.SkillID,
			CurrentLevel:  string(a.CurrentLevel),
			ExpectedLevel: string(a.ExpectedLevel),
			Gap:           a.Gap(),
		}
		if a.Skill != nil {
			row.SkillName = a.Skill.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetDepartmentHeatmap computes the mean current ordinal per department and
// skill; departments without an assessment for a skill produce no cell.
func (s *Service) GetDepartmentHeatmap() ([]*HeatmapCell, error) {
	users, err := s.repo.ListActiveUsers()
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	assessments, err := s.repo.ListAllAssessments()
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	deptByUser := make(map[string]string, len(users))
	for _, u := range users {
		deptByUser[u.ID] = u.Department
	}

	type cellKey struct {
		dept    string
		skillID string
	}
	type cellAgg struct {
		skillName string
		sum       int
		count     int
	}
	cells := make(map[cellKey]*cellAgg)

	for _, a := range assessments {
		dept, ok := deptByUser[a.UserID]
		if !ok || dept == "" {
			continue
		}
		key := cellKey{dept: dept, skillID: a.SkillID}
		agg, ok := cells[key]
		if !ok {
			agg = &cellAgg{}
			if a.Skill != nil {
				agg.skillName = a.Skill.Name
			}
			cells[key] = agg
		}
		agg.sum += a.CurrentLevel.Ordinal()
		agg.count++
	}

	out := make([]*HeatmapCell, 0, len(cells))
	for key, agg := range cells {
		out = append(out, &HeatmapCell{
			Department:   key.dept,
			SkillID:      key.skillID,
			SkillName:    agg.skillName,
			AverageLevel: round2(float64(agg.sum) / float64(agg.count)),
			Expected:     heatmapExpected,
			Employees:    agg.count,
		})
	}
	return out, nil
}

func (s *Service) GetSkillDirectory() ([]*SkillDirectoryEntry, error) {
	skills, err := s.repo.ListSkills()
	if err != nil {
		return nil, internal.NewInternalError("failed to list skills", err)
	}
	assessments, err := s.repo.ListAllAssessments()
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, a := range assessments {
		sums[a.SkillID] += a.CurrentLevel.Ordinal()
		counts[a.SkillID]++
	}

	entries := make([]*SkillDirectoryEntry, 0, len(skills))
	for _, sk := range skills {
		entry := &SkillDirectoryEntry{
			SkillID:       sk.ID,
			SkillName:     sk.Name,
			Category:      sk.Category,
			ExpectedLevel: string(sk.ExpectedLevel),
			Assessments:   counts[sk.ID],
		}
		if counts[sk.ID] > 0 {
			entry.AverageLevel = round2(float64(sums[sk.ID]) / float64(counts[sk.ID]))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Service) GetEmployeeMatrix() ([]*MatrixRow, error) {
	users, err := s.repo.ListActiveUsers()
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	assessments, err := s.repo.ListAllAssessments()
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	byUser := make(map[string][]*skilldm.Assessment)
	for _, a := range assessments {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	rows := make([]*MatrixRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, &MatrixRow{
			UserID:       u.ID,
			EmployeeCode: u.EmployeeCode,
			EmployeeName: u.EmployeeName,
			Department:   u.Department,
			Assessments:  toEntries(byUser[u.ID]),
		})
	}
	return rows, nil
}

func (s *Service) GetDepartmentMetrics(department string) (*DepartmentMetrics, error) {
	users, err := s.repo.ListActiveUsers()
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}

	var ids []string
	for _, u := range users {
		if u.Department == department {
			ids = append(ids, u.ID)
		}
	}

	metrics := &DepartmentMetrics{Department: department, Headcount: len(ids)}
	if len(ids) == 0 {
		return metrics, nil
	}

	assessments, err := s.repo.ListAssessmentsByUsers(ids)
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}
	metrics.Assessments = len(assessments)
	metrics.AverageProgress = averageProgress(assessments)
	return metrics, nil
}

func (s *Service) GetAdminDashboard() (*AdminDashboard, error) {
	metrics, err := s.GetOrgMetrics()
	if err != nil {
		return nil, err
	}
	gap, err := s.GetSkillGapAnalysis()
	if err != nil {
		return nil, err
	}
	heatmap, err := s.GetDepartmentHeatmap()
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{Metrics: metrics, SkillGap: gap, Heatmap: heatmap}, nil
}

// GetTeamOverview summarizes each direct report with their skill names and
// average progress.
func (s *Service) GetTeamOverview(managerID string) ([]*MemberSummary, error) {
	members, err := s.repo.ListTeamMembers(managerID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list team", err)
	}
	return s.summarizeMembers(members, "")
}

// GetTeamSkillOverview counts how many direct reports track each skill.
func (s *Service) GetTeamSkillOverview(managerID string) ([]*TeamSkillCount, error) {
	members, err := s.repo.ListTeamMembers(managerID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list team", err)
	}
	if len(members) == 0 {
		return []*TeamSkillCount{}, nil
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	assessments, err := s.repo.ListAssessmentsByUsers(ids)
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	counts := make(map[string]*TeamSkillCount)
	for _, a := range assessments {
		c, ok := counts[a.SkillID]
		if !ok {
			c = &TeamSkillCount{SkillID: a.SkillID}
			if a.Skill != nil {
				c.SkillName = a.Skill.Name
			}
			counts[a.SkillID] = c
		}
		c.Employees++
	}

	out := make([]*TeamSkillCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, c)
	}
	return out, nil
}

// GetTeamUsersBySkill keeps only team members who have an assessment for the
// given skill.
func (s *Service) GetTeamUsersBySkill(managerID, skillID string) ([]*MemberSummary, error) {
	members, err := s.repo.ListTeamMembers(managerID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list team", err)
	}
	return s.summarizeMembers(members, skillID)
}

func (s *Service) summarizeMembers(members []*userdm.User, skillFilter string) ([]*MemberSummary, error) {
	if len(members) == 0 {
		return []*MemberSummary{}, nil
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	assessments, err := s.repo.ListAssessmentsByUsers(ids)
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	byUser := make(map[string][]*skilldm.Assessment)
	for _, a := range assessments {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	out := make([]*MemberSummary, 0, len(members))
	for _, m := range members {
		rows := byUser[m.ID]
		if skillFilter != "" {
			var filtered []*skilldm.Assessment
			for _, a := range rows {
				if a.SkillID == skillFilter {
					filtered = append(filtered, a)
				}
			}
			if len(filtered) == 0 {
				continue
			}
			rows = filtered
		}

		summary := &MemberSummary{
			UserID:          m.ID,
			EmployeeCode:    m.EmployeeCode,
			EmployeeName:    m.EmployeeName,
			Department:      m.Department,
			Designation:     m.Designation,
			SkillNames:      []string{},
			SkillCount:      len(rows),
			AverageProgress: averageProgress(rows),
		}
		for _, a := range rows {
			if a.Skill != nil {
				summary.SkillNames = append(summary.SkillNames, a.Skill.Name)
			}
			if a.MeetsExpectation() {
				summary.MeetingCount++
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Service) GetManagerDashboard(managerID string) (*ManagerDashboard, error) {
	members, err := s.repo.ListTeamMembers(managerID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list team", err)
	}
	team, err := s.summarizeMembers(members, "")
	if err != nil {
		return nil, err
	}
	tickets, err := s.GetTeamTickets(managerID)
	if err != nil {
		return nil, err
	}

	dash := &ManagerDashboard{
		Team:        team,
		TeamSize:    len(members),
		TeamTickets: len(tickets),
	}

	if len(members) > 0 {
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		assessments, err := s.repo.ListAssessmentsByUsers(ids)
		if err != nil {
			return nil, internal.NewInternalError("failed to list assessments", err)
		}
		dash.MeetingRate = meetingRate(assessments)

		lagging := make(map[string]bool)
		for _, a := range assessments {
			if !a.MeetsExpectation() {
				lagging[a.SkillID] = true
			}
		}
		dash.SkillsNeedingAttention = len(lagging)
	}

	return dash, nil
}

func (s *Service) GetTeamTickets(managerID string) ([]*helpdeskdm.Ticket, error) {
	members, err := s.repo.ListTeamMembers(managerID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list team", err)
	}
	if len(members) == 0 {
		return []*helpdeskdm.Ticket{}, nil
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	tickets, err := s.repo.ListTicketsBySubmitters(ids)
	if err != nil {
		return nil, internal.NewInternalError("failed to list tickets", err)
	}
	return tickets, nil
}

func (s *Service) GetEmployeeOverview(userID string) (*EmployeeOverview, error) {
	u, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	assessments, err := s.repo.ListAssessmentsByUsers([]string{userID})
	if err != nil {
		return nil, internal.NewInternalError("failed to list assessments", err)
	}

	statuses := StatusSummary{Total: len(assessments)}
	for _, a := range assessments {
		switch a.Status {
		case skilldm.StatusPending:
			statuses.Pending++
		case skilldm.StatusInProgress:
			statuses.InProgress++
		case skilldm.StatusCompleted:
			statuses.Completed++
		}
	}

	return &EmployeeOverview{
		UserID:          u.ID,
		EmployeeName:    u.EmployeeName,
		Department:      u.Department,
		Assessments:     toEntries(assessments),
		OverallProgress: averageProgress(assessments),
		Statuses:        statuses,
	}, nil
}

func (s *Service) GetEmployeeDashboard(userID string) (*EmployeeDashboard, error) {
	overview, err := s.GetEmployeeOverview(userID)
	if err != nil {
		return nil, err
	}

	tickets, err := s.repo.ListTicketsBySubmitters([]string{userID})
	if err != nil {
		return nil, internal.NewInternalError("failed to list tickets", err)
	}
	open := 0
	for _, t := range tickets {
		if t.Status == helpdeskdm.StatusOpen || t.Status == helpdeskdm.StatusInProgress {
			open++
		}
	}

	return &EmployeeDashboard{Overview: overview, OpenTickets: open}, nil
}

// UpdateSkillExpectation lets a manager raise or lower the bar for one of
// their own reports. The relation is re-checked here, not trusted from the
// route guard.
func (s *Service) UpdateSkillExpectation(managerID, assessmentID, expectedLevel string) (*AssessmentEntry, error) {
	level := skilldm.SkillLevel(expectedLevel)
	if !level.Valid() {
		return nil, internal.NewValidationError("invalid skill level", internal.ErrCodeInvalidSkillLevel)
	}

	a, err := s.repo.GetAssessmentByID(assessmentID)
	if err != nil {
		return nil, internal.ErrAssessmentNotFound
	}

	owner, err := s.repo.GetUserByID(a.UserID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	isManaged := (owner.ReportingManagerID != nil && *owner.ReportingManagerID == managerID) ||
		(owner.FunctionalManagerID != nil && *owner.FunctionalManagerID == managerID)
	if !isManaged {
		return nil, internal.ErrNotTeamMember
	}

	a.ExpectedLevel = level
	if err := s.repo.UpdateAssessment(a); err != nil {
		return nil, internal.NewInternalError("failed to update expectation", err)
	}

	s.logger.Info("skill expectation updated",
		"assessment_id", assessmentID, "manager_id", managerID, "expected_level", level)
	return toEntry(a), nil
}

func toEntry(a *skilldm.Assessment) *AssessmentEntry {
	entry := &AssessmentEntry{
		AssessmentID:     a.ID,
		SkillID:          a.SkillID,
		CurrentLevel:     string(a.CurrentLevel),
		ExpectedLevel:    string(a.ExpectedLevel),
		Status:           string(a.Status),
		Gap:              a.Gap(),
		Progress:         a.ProgressPercentage(),
		MeetsExpectation: a.MeetsExpectation(),
	}
	if a.Skill != nil {
		entry.SkillName = a.Skill.Name
	}
	return entry
}

func toEntries(rows []*skilldm.Assessment) []*AssessmentEntry {
	entries := make([]*AssessmentEntry, 0, len(rows))
	for _, a := range rows {
		entries = append(entries, toEntry(a))
	}
	return entries
}

// averageProgress guards against the empty set; no assessments means 0, not
// a division by zero.
func averageProgress(rows []*skilldm.Assessment) int {
	if len(rows) == 0 {
		return 0
	}
	sum := 0
	for _, a := range rows {
		sum += a.ProgressPercentage()
	}
	return int(math.Round(float64(sum) / float64(len(rows))))
}

// meetingRate is the rounded percentage of assessments at or above their
// expected level; 0 when there are none.
func meetingRate(rows []*skilldm.Assessment) int {
	if len(rows) == 0 {
		return 0
	}
	meeting := 0
	for _, a := range rows {
		if a.MeetsExpectation() {
			meeting++
		}
	}
	return int(math.Round(float64(meeting) / float64(len(rows)) * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
