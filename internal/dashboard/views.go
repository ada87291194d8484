package dashboard

// OrgMetrics is the company-wide headline block on the admin dashboard.
type OrgMetrics struct {
	TotalEmployees    int64 `json:"totalEmployees"`
	ActiveEmployees   int64 `json:"activeEmployees"`
	InactiveEmployees int64 `json:"inactiveEmployees"`
	Departments       int64 `json:"departments"`
	Skills            int64 `json:"skills"`
	Assessments       int64 `json:"assessments"`
	AverageProgress   int   `json:"averageProgress"`
	MeetingRate       int   `json:"meetingRate"`
}

// SkillGapEntry aggregates one skill across every assessment of it.
type SkillGapEntry struct {
	SkillID          string  `json:"skillId"`
	SkillName        string  `json:"skillName"`
	Assessments      int     `json:"assessments"`
	AverageLevel     float64 `json:"averageLevel"`
	AverageGap       float64 `json:"averageGap"`
	BelowExpectation int     `json:"belowExpectation"`
}

// SkillGapRow is one (employee, skill) pair of the gap analysis.
type SkillGapRow struct {
	UserID        string `json:"userId"`
	EmployeeName  string `json:"employeeName"`
	Department    string `json:"department,omitempty"`
	SkillID       string `json:"skillId"`
	SkillName     string `json:"skillName"`
	CurrentLevel  string `json:"currentLevel"`
	ExpectedLevel string `json:"expectedLevel"`
	Gap           int    `json:"gap"`
}

// TeamSkillCount is the distinct-member count per skill over a manager's
// direct team.
type TeamSkillCount struct {
	SkillID   string `json:"skillId"`
	SkillName string `json:"skillName"`
	Employees int    `json:"employees"`
}

// HeatmapCell is one department/skill pair. Expected is the fixed top of
// the scale so cells are comparable across skills.
type HeatmapCell struct {
	Department   string  `json:"department"`
	SkillID      string  `json:"skillId"`
	SkillName    string  `json:"skillName"`
	AverageLevel float64 `json:"averageLevel"`
	Expected     int     `json:"expected"`
	Employees    int     `json:"employees"`
}

// MemberSummary is one row of a manager's team view.
type MemberSummary struct {
	UserID          string   `json:"userId"`
	EmployeeCode    string   `json:"employeeCode"`
	EmployeeName    string   `json:"employeeName"`
	Department      string   `json:"department,omitempty"`
	Designation     string   `json:"designation,omitempty"`
	SkillNames      []string `json:"skillNames"`
	SkillCount      int      `json:"skillCount"`
	AverageProgress int      `json:"averageProgress"`
	MeetingCount    int      `json:"meetingCount"`
}

// AssessmentEntry is one skill row on an employee's own dashboard.
type AssessmentEntry struct {
	AssessmentID     string `json:"assessmentId"`
	SkillID          string `json:"skillId"`
	SkillName        string `json:"skillName"`
	CurrentLevel     string `json:"currentLevel"`
	ExpectedLevel    string `json:"expectedLevel"`
	Status           string `json:"status"`
	Gap              int    `json:"gap"`
	Progress         int    `json:"progress"`
	MeetsExpectation bool   `json:"meetsExpectation"`
}

// StatusSummary counts an employee's assessments per lifecycle status.
type StatusSummary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

type EmployeeOverview struct {
	UserID          string             `json:"userId"`
	EmployeeName    string             `json:"employeeName"`
	Department      string             `json:"department,omitempty"`
	Assessments     []*AssessmentEntry `json:"assessments"`
	OverallProgress int                `json:"overallProgress"`
	Statuses        StatusSummary      `json:"statuses"`
}

// SkillDirectoryEntry is the catalog annotated with adoption numbers.
type SkillDirectoryEntry struct {
	SkillID       string  `json:"skillId"`
	SkillName     string  `json:"skillName"`
	Category      string  `json:"category,omitempty"`
	ExpectedLevel string  `json:"expectedLevel"`
	Assessments   int     `json:"assessments"`
	AverageLevel  float64 `json:"averageLevel"`
}

// MatrixRow is one employee row of the full skill matrix.
type MatrixRow struct {
	UserID       string             `json:"userId"`
	EmployeeCode string             `json:"employeeCode"`
	EmployeeName string             `json:"employeeName"`
	Department   string             `json:"department,omitempty"`
	Assessments  []*AssessmentEntry `json:"assessments"`
}

type DepartmentMetrics struct {
	Department      string `json:"department"`
	Headcount       int    `json:"headcount"`
	Assessments     int    `json:"assessments"`
	AverageProgress int    `json:"averageProgress"`
}

type AdminDashboard struct {
	Metrics  *OrgMetrics      `json:"metrics"`
	SkillGap []*SkillGapEntry `json:"skillGap"`
	Heatmap  []*HeatmapCell   `json:"heatmap"`
}

type ManagerDashboard struct {
	Team []*MemberSummary `json:"team"`
	// TeamSize counts direct reports; MeetingRate is the rounded percentage
	// of their assessments meeting expectation; SkillsNeedingAttention counts
	// distinct skills with at least one below-expectation report.
	TeamSize               int `json:"teamSize"`
	TeamTickets            int `json:"teamTickets"`
	MeetingRate            int `json:"meetingRate"`
	SkillsNeedingAttention int `json:"skillsNeedingAttention"`
}

type EmployeeDashboard struct {
	Overview    *EmployeeOverview `json:"overview"`
	OpenTickets int               `json:"openTickets"`
}
