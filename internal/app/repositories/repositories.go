package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CollegeRepository               *CollegeRepository
	QuestionRepository              *QuestionRepository
	StudentRepository               *StudentRepository
	RecommendationSettingRepository *RecommendationSettingRepository
	CollegeUserRepository           *CollegeUserRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CollegeRepository:               NewCollegeRepository(db),
		QuestionRepository:              NewQuestionRepository(db),
		StudentRepository:               NewStudentRepository(db),
		RecommendationSettingRepository: NewRecommendationSettingRepository(db),
		CollegeUserRepository:           NewCollegeUserRepository(db),
	}
}
