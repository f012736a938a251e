package dto

// CreateCollegeRequest represents the data needed to register a college
type CreateCollegeRequest struct {
	CollegeID string `json:"collegeId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	BaseURL   string `json:"baseUrl" binding:"required,url"`
}

// QuestionOptionRequest is one selectable answer of a new question
type QuestionOptionRequest struct {
	Text  string `json:"text" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// AddQuestionRequest represents a new survey question with its options
type AddQuestionRequest struct {
	QuestionID string                  `json:"questionId" binding:"required"`
	Text       string                  `json:"text" binding:"required"`
	Options    []QuestionOptionRequest `json:"options" binding:"required,min=1,dive"`
}

// UpsertSettingRequest sets the recommendation count for a subject group
type UpsertSettingRequest struct {
	SubjectGroupName   string `json:"subjectGroupName" binding:"required"`
	NumRecommendations int    `json:"numRecommendations" binding:"omitempty,gt=0"`
}

// AddCollegeUserRequest links a panel operator account to a college
type AddCollegeUserRequest struct {
	Username string `json:"username" binding:"required"`
}
