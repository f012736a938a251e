package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
)

// StudentService defines the interface for student registration and stored
// recommendation retrieval.
type StudentService interface {
	RegisterStudent(ctx context.Context, collegeName string, student *models.Student) (*models.Student, error)
	GetStudentRecommendations(ctx context.Context, collegeName, studentID string) ([]models.Recommendation, error)
	GetCollegeRecommendations(ctx context.Context, collegeName string) ([]*models.Student, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	collegeRepo CollegeStore
	studentRepo StudentStore
}

// NewStudentService creates a new student service instance
func NewStudentService(collegeRepo CollegeStore, studentRepo StudentStore) StudentService {
	return &studentServiceImpl{
		collegeRepo: collegeRepo,
		studentRepo: studentRepo,
	}
}

// RegisterStudent creates a student in the named college. Registering the same
// (college, student_id) twice is rejected with a conflict, never overwritten.
// Responses and recommendations always start out empty regardless of input.
func (s *studentServiceImpl) RegisterStudent(ctx context.Context, collegeName string, student *models.Student) (*models.Student, error) {
	if student == nil || strings.TrimSpace(student.StudentID) == "" {
		return nil, fmt.Errorf("%w: student_id is required", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(student.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidationFailed)
	}

	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCollegeNotFound) {
			// An unknown college at registration is reported as a
			// validation problem, not a 404.
			return nil, fmt.Errorf("%w: college with name '%s' does not exist", apperrors.ErrValidationFailed, collegeName)
		}
		return nil, err
	}

	student.CollegeID = college.ID
	student.Responses = nil
	student.Recommendations = nil

	id, err := s.studentRepo.CreateStudent(ctx, student)
	if err != nil {
		return nil, err
	}

	student.ID = id
	student.College = college
	return student, nil
}

// GetStudentRecommendations returns the stored recommendation list for a
// student, scoped to the college. Students without a generated result yet are
// reported as not found.
func (s *studentServiceImpl) GetStudentRecommendations(ctx context.Context, collegeName, studentID string) ([]models.Recommendation, error) {
	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetStudentByCollegeAndID(ctx, college.ID, studentID)
	if err != nil {
		return nil, err
	}

	if len(student.Recommendations) == 0 {
		return nil, apperrors.ErrRecommendationsNotFound
	}

	return student.Recommendations, nil
}

// GetCollegeRecommendations lists all of the college's students that already
// have generated recommendations. This backs the operator panel.
func (s *studentServiceImpl) GetCollegeRecommendations(ctx context.Context, collegeName string) ([]*models.Student, error) {
	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		return nil, err
	}

	students, err := s.studentRepo.GetStudentsWithRecommendations(ctx, college.ID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}

	for _, student := range students {
		student.College = college
	}
	return students, nil
}
