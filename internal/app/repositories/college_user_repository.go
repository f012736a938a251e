package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
	"github.com/selimk/coursecompass/internal/pkg/dberrors"
	"github.com/selimk/coursecompass/internal/pkg/logger"
)

// CollegeUserRepository handles panel operator accounts. An operator belongs
// to exactly one college and may only view that college's students.
type CollegeUserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCollegeUserRepository creates a new CollegeUserRepository
func NewCollegeUserRepository(db *pgxpool.Pool) *CollegeUserRepository {
	return &CollegeUserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateCollegeUser links an operator account to a college.
func (r *CollegeUserRepository) CreateCollegeUser(ctx context.Context, user *models.CollegeUser) (int64, error) {
	sql, args, err := r.sb.Insert("college_users").
		Columns("college_id", "username").
		Values(user.CollegeID, user.Username).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create college user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error creating college user")
		return 0, fmt.Errorf("error creating college user: %w", err)
	}

	return id, nil
}

// GetCollegeUsers lists the operator accounts of a college.
func (r *CollegeUserRepository) GetCollegeUsers(ctx context.Context, collegeID int64) ([]*models.CollegeUser, error) {
	sql, args, err := r.sb.Select("id", "college_id", "username").
		From("college_users").
		Where(squirrel.Eq{"college_id": collegeID}).
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get college users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get college users query")
		return nil, fmt.Errorf("error querying college users: %w", err)
	}
	defer rows.Close()

	users := []*models.CollegeUser{}
	for rows.Next() {
		user := &models.CollegeUser{}
		if err := rows.Scan(&user.ID, &user.CollegeID, &user.Username); err != nil {
			return nil, fmt.Errorf("error scanning college user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating college user rows: %w", err)
	}

	return users, nil
}
