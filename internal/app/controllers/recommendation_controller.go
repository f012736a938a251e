package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selimk/coursecompass/internal/app/models/dto"
	"github.com/selimk/coursecompass/internal/app/services"
	"github.com/selimk/coursecompass/internal/middleware"
)

// RecommendationController handles answer submission
type RecommendationController struct {
	recommendationService services.RecommendationService
}

// NewRecommendationController creates a new RecommendationController
func NewRecommendationController(recommendationService services.RecommendationService) *RecommendationController {
	return &RecommendationController{
		recommendationService: recommendationService,
	}
}

// SubmitAnswers stores a student's answers and generates recommendations
// @Summary Submit survey answers
// @Description Stores the answers, fetches the college's live course catalog and generates course recommendations per subject group
// @Tags submissions
// @Accept json
// @Produce json
// @Param request body dto.SubmitAnswersRequest true "Answers keyed by question ID"
// @Success 200 {object} dto.RecommendationListResponse "Generated recommendations"
// @Failure 400 {object} dto.ErrorResponse "Missing fields or unknown question IDs"
// @Failure 404 {object} dto.ErrorResponse "Student not found in the college"
// @Failure 502 {object} dto.ErrorResponse "Course catalog could not be fetched"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions [post]
func (c *RecommendationController) SubmitAnswers(ctx *gin.Context) {
	var req dto.SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "student_id, answers, and college_name are required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	recommendations, err := c.recommendationService.SubmitAnswers(ctx, req.CollegeName, req.StudentID, req.Answers)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RecommendationListResponse{Recommendations: recommendations})
}
