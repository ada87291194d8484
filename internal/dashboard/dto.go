package dashboard

type UpdateExpectationDTO struct {
	ExpectedLevel string `json:"expectedLevel" validate:"required,oneof=beginner intermediate advanced"`
}
