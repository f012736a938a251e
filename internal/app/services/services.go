package services

import (
	"context"

	"github.com/selimk/coursecompass/internal/app/models"
)

// Services defined in this package:
// - CollegeService: administrative management of colleges, questions and settings
// - StudentService: student registration and stored recommendation retrieval
// - RecommendationService: answer submission and the recommendation pipeline

// Repository interfaces consumed by the services. The pgx-backed
// implementations live in the repositories package; tests substitute fakes.

// CollegeStore provides college persistence.
type CollegeStore interface {
	CreateCollege(ctx context.Context, college *models.College) (int64, error)
	GetCollegeByName(ctx context.Context, name string) (*models.College, error)
	GetAllColleges(ctx context.Context) ([]*models.College, error)
}

// QuestionStore provides college-scoped question persistence. Lookups always
// carry the owning college's ID; a question_id alone is ambiguous.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, question *models.Question) (int64, error)
	GetQuestionByExternalID(ctx context.Context, collegeID int64, questionID string) (*models.Question, error)
	GetQuestionsByCollege(ctx context.Context, collegeID int64) ([]*models.Question, error)
	GetQuestionIDsByCollege(ctx context.Context, collegeID int64) ([]string, error)
}

// StudentStore provides student persistence.
type StudentStore interface {
	CreateStudent(ctx context.Context, student *models.Student) (int64, error)
	GetStudentByCollegeAndID(ctx context.Context, collegeID int64, studentID string) (*models.Student, error)
	UpdateResponses(ctx context.Context, id int64, responses models.ResponseMap) error
	UpdateRecommendations(ctx context.Context, id int64, recommendations []models.Recommendation) error
	GetStudentsWithRecommendations(ctx context.Context, collegeID int64) ([]*models.Student, error)
}

// SettingStore provides recommendation setting persistence.
type SettingStore interface {
	UpsertSetting(ctx context.Context, setting *models.RecommendationSetting) error
	GetSetting(ctx context.Context, collegeID int64, subjectGroupName string) (*models.RecommendationSetting, error)
}

// CollegeUserStore provides panel operator persistence.
type CollegeUserStore interface {
	CreateCollegeUser(ctx context.Context, user *models.CollegeUser) (int64, error)
	GetCollegeUsers(ctx context.Context, collegeID int64) ([]*models.CollegeUser, error)
}

// CourseFetcher retrieves the live course list from a college catalog API.
type CourseFetcher interface {
	FetchCourses(ctx context.Context, baseURL string) ([]models.Course, error)
}
