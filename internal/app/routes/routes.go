package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/selimk/coursecompass/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	collegeController *controllers.CollegeController,
	studentController *controllers.StudentController,
	recommendationController *controllers.RecommendationController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Student-facing routes ---
	v1.POST("/students", studentController.RegisterStudent)
	v1.POST("/submissions", recommendationController.SubmitAnswers)

	// College routes
	colleges := v1.Group("/colleges")
	{
		colleges.GET("", collegeController.GetColleges)
		colleges.GET("/:collegeName/questions", collegeController.GetCollegeQuestions)
		colleges.GET("/:collegeName/students/:studentId/recommendations", studentController.GetStudentRecommendations)
		colleges.GET("/:collegeName/recommendations", studentController.GetCollegeRecommendations)

		// Administrative routes. Authentication is handled by the deployment's
		// gateway, not by this service.
		colleges.POST("", collegeController.CreateCollege)
		colleges.POST("/:collegeName/questions", collegeController.AddQuestion)
		colleges.PUT("/:collegeName/settings", collegeController.UpsertSetting)
		colleges.POST("/:collegeName/users", collegeController.AddCollegeUser)
		colleges.GET("/:collegeName/users", collegeController.GetCollegeUsers)
	}
}
