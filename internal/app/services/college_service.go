package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
)

// CollegeService defines the interface for administrative college operations.
// This is the API equivalent of what operators previously did by hand:
// setting up a college, its question set and its per-group settings.
type CollegeService interface {
	CreateCollege(ctx context.Context, college *models.College) (int64, error)
	GetColleges(ctx context.Context) ([]*models.College, error)
	GetCollegeQuestions(ctx context.Context, collegeName string) ([]*models.Question, error)
	AddQuestion(ctx context.Context, collegeName string, question *models.Question) (int64, error)
	UpsertSetting(ctx context.Context, collegeName string, setting *models.RecommendationSetting) error
	AddCollegeUser(ctx context.Context, collegeName string, user *models.CollegeUser) (int64, error)
	GetCollegeUsers(ctx context.Context, collegeName string) ([]*models.CollegeUser, error)
}

// collegeServiceImpl implements the CollegeService interface
type collegeServiceImpl struct {
	collegeRepo     CollegeStore
	questionRepo    QuestionStore
	settingRepo     SettingStore
	collegeUserRepo CollegeUserStore
}

// NewCollegeService creates a new college service instance
func NewCollegeService(collegeRepo CollegeStore, questionRepo QuestionStore, settingRepo SettingStore, collegeUserRepo CollegeUserStore) CollegeService {
	return &collegeServiceImpl{
		collegeRepo:     collegeRepo,
		questionRepo:    questionRepo,
		settingRepo:     settingRepo,
		collegeUserRepo: collegeUserRepo,
	}
}

// CreateCollege creates a new college after validating its fields.
func (s *collegeServiceImpl) CreateCollege(ctx context.Context, college *models.College) (int64, error) {
	if college == nil {
		return 0, fmt.Errorf("%w: college is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(college.CollegeID) == "" {
		return 0, fmt.Errorf("%w: college_id cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(college.Name) == "" {
		return 0, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	parsed, err := url.Parse(college.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return 0, fmt.Errorf("%w: base_url must be an absolute URL", apperrors.ErrValidationFailed)
	}
	// Trailing slashes would produce double slashes when the catalog path is appended.
	college.BaseURL = strings.TrimRight(college.BaseURL, "/")

	id, err := s.collegeRepo.CreateCollege(ctx, college)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetColleges lists every registered college.
func (s *collegeServiceImpl) GetColleges(ctx context.Context) ([]*models.College, error) {
	return s.collegeRepo.GetAllColleges(ctx)
}

// GetCollegeQuestions returns the question set of a college with options.
func (s *collegeServiceImpl) GetCollegeQuestions(ctx context.Context, collegeName string) ([]*models.Question, error) {
	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.GetQuestionsByCollege(ctx, college.ID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving questions: %w", err)
	}
	return questions, nil
}

// AddQuestion attaches a question (with its options) to a college.
func (s *collegeServiceImpl) AddQuestion(ctx context.Context, collegeName string, question *models.Question) (int64, error) {
	if question == nil || strings.TrimSpace(question.QuestionID) == "" || strings.TrimSpace(question.Text) == "" {
		return 0, fmt.Errorf("%w: question_id and text are required", apperrors.ErrValidationFailed)
	}
	for _, option := range question.Options {
		if strings.TrimSpace(option.Value) == "" || strings.TrimSpace(option.Text) == "" {
			return 0, fmt.Errorf("%w: every option needs a text and a value", apperrors.ErrValidationFailed)
		}
	}

	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		return 0, err
	}

	question.CollegeID = college.ID
	id, err := s.questionRepo.CreateQuestion(ctx, question)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertSetting creates or updates a per-group recommendation count.
func (s *collegeServiceImpl) UpsertSetting(ctx context.Context, collegeName string, setting *models.RecommendationSetting) error {
	if setting == nil || strings.TrimSpace(setting.SubjectGroupName) == "" {
		return fmt.Errorf("%w: subject_group_name is required", apperrors.ErrValidationFailed)
	}
	if setting.NumRecommendations <= 0 {
		// Default mirrors the model field default.
		setting.NumRecommendations = 3
	}

	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		return err
	}

	setting.CollegeID = college.ID
	return s.settingRepo.UpsertSetting(ctx, setting)
}

// AddCollegeUser links a panel operator account to a college.
func (s *collegeServiceImpl) AddCollegeUser(ctx context.Context, collegeName string, user *models.CollegeUser) (int64, error) {
	if user == nil || strings.TrimSpace(user.Username) == "" {
		return 0, fmt.Errorf("%w: username is required", apperrors.ErrValidationFailed)
	}

	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		return 0, err
	}

	user.CollegeID = college.ID
	return s.collegeUserRepo.CreateCollegeUser(ctx, user)
}

// GetCollegeUsers lists a college's panel operator accounts.
func (s *collegeServiceImpl) GetCollegeUsers(ctx context.Context, collegeName string) ([]*models.CollegeUser, error) {
	college, err := s.collegeRepo.GetCollegeByName(ctx, collegeName)
	if err != nil {
		return nil, err
	}
	return s.collegeUserRepo.GetCollegeUsers(ctx, college.ID)
}
