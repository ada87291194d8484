package skills

type CreateSkillDTO struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	ExpectedLevel string `json:"expectedLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type UpdateSkillDTO struct {
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	ExpectedLevel *string `json:"expectedLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type AddAssessmentDTO struct {
	SkillID           string `json:"skillId" validate:"required"`
	CurrentLevel      string `json:"currentLevel" validate:"required,oneof=beginner intermediate advanced"`
	CertificationName string `json:"certificationName"`
	CertificationURL  string `json:"certificationUrl" validate:"omitempty,url"`
}

type UpdateAssessmentDTO struct {
	CurrentLevel      *string `json:"currentLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	Status            *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Feedback          *string `json:"feedback"`
	CertificationName *string `json:"certificationName"`
	CertificationURL  *string `json:"certificationUrl" validate:"omitempty,url"`
}
