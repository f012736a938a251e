package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
)

type fakeCollegeUserStore struct {
	users []*models.CollegeUser
}

func (f *fakeCollegeUserStore) CreateCollegeUser(ctx context.Context, user *models.CollegeUser) (int64, error) {
	for _, existing := range f.users {
		if existing.CollegeID == user.CollegeID && existing.Username == user.Username {
			return 0, apperrors.ErrResourceAlreadyExists
		}
	}
	user.ID = int64(len(f.users) + 1)
	f.users = append(f.users, user)
	return user.ID, nil
}

func (f *fakeCollegeUserStore) GetCollegeUsers(ctx context.Context, collegeID int64) ([]*models.CollegeUser, error) {
	var users []*models.CollegeUser
	for _, u := range f.users {
		if u.CollegeID == collegeID {
			users = append(users, u)
		}
	}
	return users, nil
}

func newCollegeService(colleges *fakeCollegeStore, questions *fakeQuestionStore, settings *fakeSettingStore, users *fakeCollegeUserStore) CollegeService {
	return NewCollegeService(colleges, questions, settings, users)
}

func TestCreateCollege(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		colleges := &fakeCollegeStore{}
		svc := newCollegeService(colleges, &fakeQuestionStore{}, &fakeSettingStore{}, &fakeCollegeUserStore{})

		id, err := svc.CreateCollege(ctx, &models.College{
			CollegeID: "ACME", Name: "acme", BaseURL: "https://api.acme.edu/",
		})
		require.NoError(t, err)
		assert.NotZero(t, id)
		// Trailing slash is normalized away so the catalog path appends cleanly.
		assert.Equal(t, "https://api.acme.edu", colleges.colleges["acme"].BaseURL)
	})

	t.Run("RelativeBaseURLRejected", func(t *testing.T) {
		svc := newCollegeService(&fakeCollegeStore{}, &fakeQuestionStore{}, &fakeSettingStore{}, &fakeCollegeUserStore{})

		_, err := svc.CreateCollege(ctx, &models.College{
			CollegeID: "ACME", Name: "acme", BaseURL: "api.acme.edu",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		colleges := &fakeCollegeStore{}
		svc := newCollegeService(colleges, &fakeQuestionStore{}, &fakeSettingStore{}, &fakeCollegeUserStore{})

		_, err := svc.CreateCollege(ctx, &models.College{CollegeID: "ACME", Name: "acme", BaseURL: "https://api.acme.edu"})
		require.NoError(t, err)

		_, err = svc.CreateCollege(ctx, &models.College{CollegeID: "ACME2", Name: "acme", BaseURL: "https://api2.acme.edu"})
		assert.ErrorIs(t, err, apperrors.ErrCollegeAlreadyExists)
	})
}

func TestGetColleges(t *testing.T) {
	ctx := context.Background()
	colleges := &fakeCollegeStore{}
	svc := newCollegeService(colleges, &fakeQuestionStore{}, &fakeSettingStore{}, &fakeCollegeUserStore{})

	listed, err := svc.GetColleges(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = svc.CreateCollege(ctx, &models.College{CollegeID: "ACME", Name: "acme", BaseURL: "https://api.acme.edu"})
	require.NoError(t, err)

	listed, err = svc.GetColleges(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "acme", listed[0].Name)
}

func TestAddQuestion(t *testing.T) {
	ctx := context.Background()
	colleges := &fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}}

	t.Run("Success", func(t *testing.T) {
		questions := &fakeQuestionStore{}
		svc := newCollegeService(colleges, questions, &fakeSettingStore{}, &fakeCollegeUserStore{})

		id, err := svc.AddQuestion(ctx, "acme", &models.Question{
			QuestionID: "Q1",
			Text:       "When do you prefer to attend classes?",
			Options: []models.Option{
				{Text: "Morning", Value: "morning"},
			},
		})
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.Equal(t, int64(1), questions.questions["Q1"].CollegeID)
	})

	t.Run("DuplicateQuestionIDWithinCollege", func(t *testing.T) {
		questions := &fakeQuestionStore{}
		svc := newCollegeService(colleges, questions, &fakeSettingStore{}, &fakeCollegeUserStore{})

		_, err := svc.AddQuestion(ctx, "acme", &models.Question{QuestionID: "Q1", Text: "First?"})
		require.NoError(t, err)

		_, err = svc.AddQuestion(ctx, "acme", &models.Question{QuestionID: "Q1", Text: "Second?"})
		assert.ErrorIs(t, err, apperrors.ErrQuestionAlreadyExists)
	})

	t.Run("OptionWithoutValueRejected", func(t *testing.T) {
		svc := newCollegeService(colleges, &fakeQuestionStore{}, &fakeSettingStore{}, &fakeCollegeUserStore{})

		_, err := svc.AddQuestion(ctx, "acme", &models.Question{
			QuestionID: "Q2", Text: "Anything?",
			Options: []models.Option{{Text: "Yes", Value: ""}},
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestUpsertSetting(t *testing.T) {
	ctx := context.Background()
	colleges := &fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}}

	t.Run("CreateThenUpdate", func(t *testing.T) {
		settings := &fakeSettingStore{}
		svc := newCollegeService(colleges, &fakeQuestionStore{}, settings, &fakeCollegeUserStore{})

		err := svc.UpsertSetting(ctx, "acme", &models.RecommendationSetting{SubjectGroupName: "Science", NumRecommendations: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, settings.settings["Science"].NumRecommendations)

		err = svc.UpsertSetting(ctx, "acme", &models.RecommendationSetting{SubjectGroupName: "Science", NumRecommendations: 5})
		require.NoError(t, err)
		assert.Equal(t, 5, settings.settings["Science"].NumRecommendations)
	})

	t.Run("NonPositiveCountDefaults", func(t *testing.T) {
		settings := &fakeSettingStore{}
		svc := newCollegeService(colleges, &fakeQuestionStore{}, settings, &fakeCollegeUserStore{})

		err := svc.UpsertSetting(ctx, "acme", &models.RecommendationSetting{SubjectGroupName: "Arts"})
		require.NoError(t, err)
		assert.Equal(t, 3, settings.settings["Arts"].NumRecommendations)
	})

	t.Run("MissingGroupName", func(t *testing.T) {
		svc := newCollegeService(colleges, &fakeQuestionStore{}, &fakeSettingStore{}, &fakeCollegeUserStore{})

		err := svc.UpsertSetting(ctx, "acme", &models.RecommendationSetting{NumRecommendations: 3})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestCollegeUsers(t *testing.T) {
	ctx := context.Background()
	colleges := &fakeCollegeStore{colleges: map[string]*models.College{"acme": testCollege()}}

	users := &fakeCollegeUserStore{}
	svc := newCollegeService(colleges, &fakeQuestionStore{}, &fakeSettingStore{}, users)

	id, err := svc.AddCollegeUser(ctx, "acme", &models.CollegeUser{Username: "registrar"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = svc.AddCollegeUser(ctx, "acme", &models.CollegeUser{Username: "registrar"})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	listed, err := svc.GetCollegeUsers(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "registrar", listed[0].Username)
}
