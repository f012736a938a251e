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
	"github.com/selimk/coursecompass/internal/pkg/dberrors"
	"github.com/selimk/coursecompass/internal/pkg/logger"
)

// CollegeRepository handles college database operations
type CollegeRepository struct {
	db *pgxpool.Pool
	// Use squirrel instance with placeholder format
	sb squirrel.StatementBuilderType
}

// NewCollegeRepository creates a new CollegeRepository
func NewCollegeRepository(db *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateCollege creates a new college
func (r *CollegeRepository) CreateCollege(ctx context.Context, college *models.College) (int64, error) {
	sql, args, err := r.sb.Insert("colleges").
		Columns("college_id", "name", "base_url").
		Values(college.CollegeID, college.Name, college.BaseURL).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create college SQL")
		return 0, fmt.Errorf("failed to build create college query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrCollegeAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create college query")
		return 0, fmt.Errorf("error creating college: %w", err)
	}

	return id, nil
}

// GetCollegeByName retrieves a college by its unique display name
func (r *CollegeRepository) GetCollegeByName(ctx context.Context, name string) (*models.College, error) {
	sql, args, err := r.sb.Select("id", "college_id", "name", "base_url").
		From("colleges").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get college by name SQL")
		return nil, fmt.Errorf("failed to build get college query: %w", err)
	}

	college := &models.College{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&college.ID, &college.CollegeID, &college.Name, &college.BaseURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCollegeNotFound
		}
		logger.Error().Err(err).Str("collegeName", name).Msg("Error scanning college row")
		return nil, fmt.Errorf("error getting college by name: %w", err)
	}

	return college, nil
}

// GetAllColleges retrieves all colleges ordered by name
func (r *CollegeRepository) GetAllColleges(ctx context.Context) ([]*models.College, error) {
	sql, args, err := r.sb.Select("id", "college_id", "name", "base_url").
		From("colleges").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get all colleges SQL")
		return nil, fmt.Errorf("failed to build get all colleges query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all colleges query")
		return nil, fmt.Errorf("error querying colleges: %w", err)
	}
	defer rows.Close()

	colleges := []*models.College{}
	for rows.Next() {
		college := &models.College{}
		if err := rows.Scan(&college.ID, &college.CollegeID, &college.Name, &college.BaseURL); err != nil {
			logger.Error().Err(err).Msg("Error scanning college row during get all")
			return nil, fmt.Errorf("error scanning college row: %w", err)
		}
		colleges = append(colleges, college)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating college rows")
		return nil, fmt.Errorf("error iterating college rows: %w", err)
	}

	return colleges, nil
}
