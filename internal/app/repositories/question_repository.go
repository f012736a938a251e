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

// QuestionRepository handles question and option database operations.
// All lookups are scoped to a college; a question_id on its own is not a key.
type QuestionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateQuestion inserts a question together with its options in one transaction.
func (r *QuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.sb.Insert("questions").
		Columns("college_id", "question_id", "text").
		Values(question.CollegeID, question.QuestionID, question.Text).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create question SQL")
		return 0, fmt.Errorf("failed to build create question query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrQuestionAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create question query")
		return 0, fmt.Errorf("error creating question: %w", err)
	}

	for _, option := range question.Options {
		sql, args, err := r.sb.Insert("options").
			Columns("question_id", "text", "value").
			Values(id, option.Text, option.Value).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to build create option query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("optionValue", option.Value).Msg("Error inserting question option")
			return 0, fmt.Errorf("error creating option: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// GetQuestionByExternalID retrieves one question of a college by its external
// question_id, including its options.
func (r *QuestionRepository) GetQuestionByExternalID(ctx context.Context, collegeID int64, questionID string) (*models.Question, error) {
	sql, args, err := r.sb.Select("id", "college_id", "question_id", "text").
		From("questions").
		Where(squirrel.Eq{"college_id": collegeID, "question_id": questionID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get question SQL")
		return nil, fmt.Errorf("failed to build get question query: %w", err)
	}

	question := &models.Question{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&question.ID, &question.CollegeID, &question.QuestionID, &question.Text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuestionNotFound
		}
		logger.Error().Err(err).Str("questionId", questionID).Msg("Error scanning question row")
		return nil, fmt.Errorf("error getting question: %w", err)
	}

	options, err := r.getOptions(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	question.Options = options

	return question, nil
}

// GetQuestionsByCollege retrieves all questions of a college with their options,
// ordered by question_id.
func (r *QuestionRepository) GetQuestionsByCollege(ctx context.Context, collegeID int64) ([]*models.Question, error) {
	sql, args, err := r.sb.Select("id", "college_id", "question_id", "text").
		From("questions").
		Where(squirrel.Eq{"college_id": collegeID}).
		OrderBy("question_id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get questions by college SQL")
		return nil, fmt.Errorf("failed to build get questions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get questions by college query")
		return nil, fmt.Errorf("error querying questions: %w", err)
	}
	defer rows.Close()

	questions := []*models.Question{}
	for rows.Next() {
		question := &models.Question{}
		if err := rows.Scan(&question.ID, &question.CollegeID, &question.QuestionID, &question.Text); err != nil {
			logger.Error().Err(err).Msg("Error scanning question row")
			return nil, fmt.Errorf("error scanning question row: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}

	for _, question := range questions {
		options, err := r.getOptions(ctx, question.ID)
		if err != nil {
			return nil, err
		}
		question.Options = options
	}

	return questions, nil
}

// GetQuestionIDsByCollege returns the external question_id values of a college.
// Used to validate that a submission only answers the college's own questions.
func (r *QuestionRepository) GetQuestionIDsByCollege(ctx context.Context, collegeID int64) ([]string, error) {
	sql, args, err := r.sb.Select("question_id").
		From("questions").
		Where(squirrel.Eq{"college_id": collegeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get question IDs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get question IDs query")
		return nil, fmt.Errorf("error querying question IDs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning question ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question ID rows: %w", err)
	}

	return ids, nil
}

// getOptions loads the options of one question in insertion order.
func (r *QuestionRepository) getOptions(ctx context.Context, questionID int64) ([]models.Option, error) {
	sql, args, err := r.sb.Select("id", "question_id", "text", "value").
		From("options").
		Where(squirrel.Eq{"question_id": questionID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get options query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("questionID", questionID).Msg("Error executing get options query")
		return nil, fmt.Errorf("error querying options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		option := models.Option{}
		if err := rows.Scan(&option.ID, &option.QuestionID, &option.Text, &option.Value); err != nil {
			return nil, fmt.Errorf("error scanning option row: %w", err)
		}
		options = append(options, option)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating option rows: %w", err)
	}

	return options, nil
}
