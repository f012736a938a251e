package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/app/models/dto"
	"github.com/selimk/coursecompass/internal/app/services"
	"github.com/selimk/coursecompass/internal/middleware"
)

// StudentController handles student registration and recommendation retrieval
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// RegisterStudent handles student registration
// @Summary Register a student
// @Description Registers a student in a college. The same student ID may exist in different colleges.
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Student information"
// @Success 201 {object} dto.RegisterStudentResponse "Student registered successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown college"
// @Failure 409 {object} dto.ErrorResponse "Student already registered in this college"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) RegisterStudent(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student := &models.Student{
		StudentID:  req.StudentID,
		Name:       req.Name,
		Department: req.Department,
		Semester:   req.Semester,
	}

	created, err := c.studentService.RegisterStudent(ctx, req.CollegeName, student)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.RegisterStudentResponse{
		Message:   "Student registered successfully",
		StudentID: created.StudentID,
	})
}

// GetStudentRecommendations returns a student's stored recommendations
// @Summary Get stored recommendations
// @Description Returns the recommendation list generated by the last submission of this student
// @Tags students
// @Produce json
// @Param collegeName path string true "College name"
// @Param studentId path string true "Student ID within the college"
// @Success 200 {object} dto.RecommendationListResponse "Stored recommendations"
// @Failure 404 {object} dto.ErrorResponse "Student unknown or no recommendations generated yet"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges/{collegeName}/students/{studentId}/recommendations [get]
func (c *StudentController) GetStudentRecommendations(ctx *gin.Context) {
	collegeName := ctx.Param("collegeName")
	studentID := ctx.Param("studentId")

	recommendations, err := c.studentService.GetStudentRecommendations(ctx, collegeName, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RecommendationListResponse{Recommendations: recommendations})
}

// GetCollegeRecommendations lists all generated recommendations of a college
// @Summary List college recommendations
// @Description Returns every student of the college that has a generated recommendation list
// @Tags colleges
// @Produce json
// @Param collegeName path string true "College name"
// @Success 200 {object} dto.CollegeRecommendationsResponse "College recommendations"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges/{collegeName}/recommendations [get]
func (c *StudentController) GetCollegeRecommendations(ctx *gin.Context) {
	collegeName := ctx.Param("collegeName")

	students, err := c.studentService.GetCollegeRecommendations(ctx, collegeName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entries := make([]dto.StudentRecommendationsEntry, 0, len(students))
	for _, student := range students {
		entries = append(entries, dto.StudentRecommendationsEntry{
			StudentID:       student.StudentID,
			Name:            student.Name,
			Department:      student.Department,
			Semester:        student.Semester,
			Recommendations: student.Recommendations,
		})
	}

	ctx.JSON(http.StatusOK, dto.CollegeRecommendationsResponse{
		CollegeName:     collegeName,
		Recommendations: entries,
	})
}
