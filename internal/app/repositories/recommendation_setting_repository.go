package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
	"github.com/selimk/coursecompass/internal/pkg/logger"
)

// RecommendationSettingRepository handles per-group recommendation count settings.
type RecommendationSettingRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRecommendationSettingRepository creates a new RecommendationSettingRepository
func NewRecommendationSettingRepository(db *pgxpool.Pool) *RecommendationSettingRepository {
	return &RecommendationSettingRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertSetting creates or updates the setting for (college, subject group).
func (r *RecommendationSettingRepository) UpsertSetting(ctx context.Context, setting *models.RecommendationSetting) error {
	sql, args, err := r.sb.Insert("recommendation_settings").
		Columns("college_id", "subject_group_name", "num_recommendations").
		Values(setting.CollegeID, setting.SubjectGroupName, setting.NumRecommendations).
		Suffix("ON CONFLICT (college_id, subject_group_name) DO UPDATE SET num_recommendations = EXCLUDED.num_recommendations").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert setting SQL")
		return fmt.Errorf("failed to build upsert setting query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("subjectGroup", setting.SubjectGroupName).Msg("Error upserting recommendation setting")
		return fmt.Errorf("error upserting recommendation setting: %w", err)
	}

	return nil
}

// GetSetting retrieves the setting for (college, subject group). A missing
// setting is reported as ErrResourceNotFound; the engine treats that as
// "no recommendations requested for this group".
func (r *RecommendationSettingRepository) GetSetting(ctx context.Context, collegeID int64, subjectGroupName string) (*models.RecommendationSetting, error) {
	sql, args, err := r.sb.Select("id", "college_id", "subject_group_name", "num_recommendations").
		From("recommendation_settings").
		Where(squirrel.Eq{"college_id": collegeID, "subject_group_name": subjectGroupName}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get setting query: %w", err)
	}

	setting := &models.RecommendationSetting{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&setting.ID, &setting.CollegeID, &setting.SubjectGroupName, &setting.NumRecommendations)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		logger.Error().Err(err).Str("subjectGroup", subjectGroupName).Msg("Error scanning recommendation setting row")
		return nil, fmt.Errorf("error getting recommendation setting: %w", err)
	}

	return setting, nil
}
