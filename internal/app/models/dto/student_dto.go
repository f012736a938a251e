package dto

import "github.com/selimk/coursecompass/internal/app/models"

// RegisterStudentRequest represents student registration data
type RegisterStudentRequest struct {
	CollegeName string `json:"collegeName" binding:"required"`
	StudentID   string `json:"studentId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Department  string `json:"department"`
	Semester    string `json:"semester"`
}

// RegisterStudentResponse confirms a successful registration
type RegisterStudentResponse struct {
	Message   string `json:"message" example:"Student registered successfully"`
	StudentID string `json:"studentId" example:"S1001"`
}

// StudentRecommendationsEntry is one student row of the college-wide
// recommendation listing.
type StudentRecommendationsEntry struct {
	StudentID       string                  `json:"studentId"`
	Name            string                  `json:"name"`
	Department      string                  `json:"department"`
	Semester        string                  `json:"semester"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// CollegeRecommendationsResponse lists all generated recommendations of a college
type CollegeRecommendationsResponse struct {
	CollegeName     string                        `json:"college_name"`
	Recommendations []StudentRecommendationsEntry `json:"recommendations"`
}
