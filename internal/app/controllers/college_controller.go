package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/app/models/dto"
	"github.com/selimk/coursecompass/internal/app/services"
	"github.com/selimk/coursecompass/internal/middleware"
)

// CollegeController handles administrative college operations
type CollegeController struct {
	collegeService services.CollegeService
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(collegeService services.CollegeService) *CollegeController {
	return &CollegeController{
		collegeService: collegeService,
	}
}

// CreateCollege handles college creation
// @Summary Create a new college
// @Description Registers a college and the base URL of its course catalog API
// @Tags colleges
// @Accept json
// @Produce json
// @Param request body dto.CreateCollegeRequest true "College information"
// @Success 201 {object} dto.APIResponse{data=models.College} "College created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "College already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges [post]
func (c *CollegeController) CreateCollege(ctx *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid college data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	college := &models.College{
		CollegeID: req.CollegeID,
		Name:      req.Name,
		BaseURL:   req.BaseURL,
	}

	id, err := c.collegeService.CreateCollege(ctx, college)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	college.ID = id
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      college,
		Timestamp: time.Now(),
	})
}

// GetColleges lists the registered colleges
// @Summary List colleges
// @Tags colleges
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.College} "Colleges retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges [get]
func (c *CollegeController) GetColleges(ctx *gin.Context) {
	colleges, err := c.collegeService.GetColleges(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      colleges,
		Timestamp: time.Now(),
	})
}

// GetCollegeQuestions returns the survey questions of a college
// @Summary Get college questions
// @Description Retrieves the survey question set of a college, including options
// @Tags colleges
// @Accept json
// @Produce json
// @Param collegeName path string true "College name"
// @Success 200 {object} dto.APIResponse{data=[]models.Question} "Questions retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges/{collegeName}/questions [get]
func (c *CollegeController) GetCollegeQuestions(ctx *gin.Context) {
	collegeName := ctx.Param("collegeName")

	questions, err := c.collegeService.GetCollegeQuestions(ctx, collegeName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      questions,
		Timestamp: time.Now(),
	})
}

// AddQuestion attaches a survey question to a college
// @Summary Add a question
// @Description Creates a question with its options in a college's survey
// @Tags colleges
// @Accept json
// @Produce json
// @Param collegeName path string true "College name"
// @Param request body dto.AddQuestionRequest true "Question with options"
// @Success 201 {object} dto.APIResponse{data=models.Question} "Question created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Failure 409 {object} dto.ErrorResponse "Question already exists in the college"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges/{collegeName}/questions [post]
func (c *CollegeController) AddQuestion(ctx *gin.Context) {
	collegeName := ctx.Param("collegeName")

	var req dto.AddQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid question data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	question := &models.Question{
		QuestionID: req.QuestionID,
		Text:       req.Text,
	}
	for _, option := range req.Options {
		question.Options = append(question.Options, models.Option{Text: option.Text, Value: option.Value})
	}

	id, err := c.collegeService.AddQuestion(ctx, collegeName, question)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	question.ID = id
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      question,
		Timestamp: time.Now(),
	})
}

// UpsertSetting sets the recommendation count for a subject group
// @Summary Set a recommendation count
// @Description Creates or updates how many recommendations the engine requests for a subject group
// @Tags colleges
// @Accept json
// @Produce json
// @Param collegeName path string true "College name"
// @Param request body dto.UpsertSettingRequest true "Setting"
// @Success 200 {object} dto.SuccessResponse "Setting stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges/{collegeName}/settings [put]
func (c *CollegeController) UpsertSetting(ctx *gin.Context) {
	collegeName := ctx.Param("collegeName")

	var req dto.UpsertSettingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid setting data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	setting := &models.RecommendationSetting{
		SubjectGroupName:   req.SubjectGroupName,
		NumRecommendations: req.NumRecommendations,
	}

	if err := c.collegeService.UpsertSetting(ctx, collegeName, setting); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Recommendation setting stored"})
}

// AddCollegeUser links a panel operator to a college
// @Summary Add a panel operator
// @Description Links an operator account to a college so it may view that college's students
// @Tags colleges
// @Accept json
// @Produce json
// @Param collegeName path string true "College name"
// @Param request body dto.AddCollegeUserRequest true "Operator account"
// @Success 201 {object} dto.APIResponse{data=models.CollegeUser} "Operator linked"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Failure 409 {object} dto.ErrorResponse "Operator already linked"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges/{collegeName}/users [post]
func (c *CollegeController) AddCollegeUser(ctx *gin.Context) {
	collegeName := ctx.Param("collegeName")

	var req dto.AddCollegeUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid operator data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user := &models.CollegeUser{Username: req.Username}
	id, err := c.collegeService.AddCollegeUser(ctx, collegeName, user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user.ID = id
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// GetCollegeUsers lists a college's panel operators
// @Summary List panel operators
// @Tags colleges
// @Produce json
// @Param collegeName path string true "College name"
// @Success 200 {object} dto.APIResponse{data=[]models.CollegeUser} "Operators retrieved"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /colleges/{collegeName}/users [get]
func (c *CollegeController) GetCollegeUsers(ctx *gin.Context) {
	collegeName := ctx.Param("collegeName")

	users, err := c.collegeService.GetCollegeUsers(ctx, collegeName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      users,
		Timestamp: time.Now(),
	})
}
