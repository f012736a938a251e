package dto

import "github.com/selimk/coursecompass/internal/app/models"

// SubmitAnswersRequest carries a student's survey answers.
// Answers maps question_id to the selected option value.
type SubmitAnswersRequest struct {
	StudentID   string            `json:"student_id" binding:"required"`
	CollegeName string            `json:"college_name" binding:"required"`
	Answers     map[string]string `json:"answers" binding:"required,min=1"`
}

// RecommendationListResponse wraps a recommendation list the way it is
// persisted and returned everywhere: under a "recommendations" key.
type RecommendationListResponse struct {
	Recommendations []models.Recommendation `json:"recommendations"`
}
