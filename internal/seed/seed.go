package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/selimk/coursecompass/internal/app/models"
	appRepos "github.com/selimk/coursecompass/internal/app/repositories"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
)

// CreateDemoData creates a demo college with a survey and recommendation
// settings if they don't exist. Only called outside production mode.
func CreateDemoData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	collegeRepo := appRepos.NewCollegeRepository(dbPool)
	questionRepo := appRepos.NewQuestionRepository(dbPool)
	settingRepo := appRepos.NewRecommendationSettingRepository(dbPool)

	lgr.Info().Msg("Checking/Creating demo data (college, survey, settings)...")
	var finalErr error // To collect potential errors without stopping the process

	demoCollege := &appModels.College{
		CollegeID: "DEMO",
		Name:      "demo-college",
		BaseURL:   "http://localhost:9090",
	}
	collegeID, err := collegeRepo.CreateCollege(ctx, demoCollege)
	if err != nil && !errors.Is(err, apperrors.ErrCollegeAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating demo college")
		return errors.Join(finalErr, err)
	} else if errors.Is(err, apperrors.ErrCollegeAlreadyExists) {
		existing, errGet := collegeRepo.GetCollegeByName(ctx, demoCollege.Name)
		if errGet != nil {
			lgr.Error().Err(errGet).Msg("Error loading existing demo college")
			return errors.Join(finalErr, errGet)
		}
		collegeID = existing.ID
	}

	questions := []*appModels.Question{
		{
			CollegeID:  collegeID,
			QuestionID: "Q1",
			Text:       "When do you prefer to attend classes?",
			Options: []appModels.Option{
				{Text: "Morning", Value: "morning"},
				{Text: "Afternoon", Value: "afternoon"},
				{Text: "Evening", Value: "evening"},
			},
		},
		{
			CollegeID:  collegeID,
			QuestionID: "Q2",
			Text:       "Which learning style suits you best?",
			Options: []appModels.Option{
				{Text: "Hands-on projects", Value: "projects"},
				{Text: "Lectures and reading", Value: "lectures"},
				{Text: "Group discussions", Value: "discussions"},
			},
		},
		{
			CollegeID:  collegeID,
			QuestionID: "Q3",
			Text:       "How heavy a workload are you comfortable with?",
			Options: []appModels.Option{
				{Text: "Light", Value: "light"},
				{Text: "Moderate", Value: "moderate"},
				{Text: "Heavy", Value: "heavy"},
			},
		},
	}

	for _, q := range questions {
		if _, err := questionRepo.CreateQuestion(ctx, q); err != nil && !errors.Is(err, apperrors.ErrQuestionAlreadyExists) {
			lgr.Error().Err(err).Str("questionId", q.QuestionID).Msg("Error creating demo question")
			finalErr = errors.Join(finalErr, err)
		}
	}

	settings := []*appModels.RecommendationSetting{
		{CollegeID: collegeID, SubjectGroupName: "Computer Science", NumRecommendations: 3},
		{CollegeID: collegeID, SubjectGroupName: "Mathematics", NumRecommendations: 2},
	}
	for _, s := range settings {
		if err := settingRepo.UpsertSetting(ctx, s); err != nil {
			lgr.Error().Err(err).Str("subjectGroup", s.SubjectGroupName).Msg("Error creating demo recommendation setting")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Demo data check/creation finished.")
	return finalErr // Return collected errors, if any
}
