package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
	"github.com/selimk/coursecompass/internal/pkg/dberrors"
	"github.com/selimk/coursecompass/internal/pkg/logger"
)

// StudentRepository handles student database operations.
// Students are keyed by (college_id, student_id); the external student_id is
// never used as a lookup key on its own.
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateStudent registers a new student. The created_at timestamp is set here
// and never mutated afterwards.
func (r *StudentRepository) CreateStudent(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("college_id", "student_id", "name", "department", "semester", "created_at").
		Values(student.CollegeID, student.StudentID, student.Name, student.Department, student.Semester, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id, &student.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrStudentAlreadyExists
		}
		logger.Error().Err(err).Str("studentId", student.StudentID).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return id, nil
}

// GetStudentByCollegeAndID retrieves a student scoped to a college.
func (r *StudentRepository) GetStudentByCollegeAndID(ctx context.Context, collegeID int64, studentID string) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "college_id", "student_id", "name", "department", "semester", "responses", "recommendations", "created_at").
		From("students").
		Where(squirrel.Eq{"college_id": collegeID, "student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentId", studentID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	return student, nil
}

// UpdateResponses stores the raw answer mapping on the student record.
func (r *StudentRepository) UpdateResponses(ctx context.Context, id int64, responses models.ResponseMap) error {
	payload, err := json.Marshal(responses)
	if err != nil {
		return fmt.Errorf("failed to marshal responses: %w", err)
	}

	return r.updateJSONColumn(ctx, id, "responses", payload)
}

// UpdateRecommendations replaces the student's recommendation list. Prior
// results are overwritten; recommendations are not versioned.
func (r *StudentRepository) UpdateRecommendations(ctx context.Context, id int64, recommendations []models.Recommendation) error {
	payload, err := json.Marshal(recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	return r.updateJSONColumn(ctx, id, "recommendations", payload)
}

// GetStudentsWithRecommendations lists a college's students that already have
// a generated recommendation list. Backs the operator panel data endpoint.
func (r *StudentRepository) GetStudentsWithRecommendations(ctx context.Context, collegeID int64) ([]*models.Student, error) {
	sql, args, err := r.sb.Select("id", "college_id", "student_id", "name", "department", "semester", "responses", "recommendations", "created_at").
		From("students").
		Where(squirrel.Eq{"college_id": collegeID}).
		Where("recommendations IS NOT NULL").
		OrderBy("student_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get students with recommendations query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row during list")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

func (r *StudentRepository) updateJSONColumn(ctx context.Context, id int64, column string, payload []byte) error {
	sql, args, err := r.sb.Update("students").
		Set(column, payload).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update %s query: %w", column, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Str("column", column).Msg("Error updating student JSON column")
		return fmt.Errorf("error updating student %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// scanStudent scans one student row, decoding the nullable JSONB columns.
func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	var responsesRaw, recommendationsRaw []byte

	err := row.Scan(&student.ID, &student.CollegeID, &student.StudentID, &student.Name,
		&student.Department, &student.Semester, &responsesRaw, &recommendationsRaw, &student.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(responsesRaw) > 0 {
		if err := json.Unmarshal(responsesRaw, &student.Responses); err != nil {
			return nil, fmt.Errorf("failed to decode stored responses: %w", err)
		}
	}
	if len(recommendationsRaw) > 0 {
		if err := json.Unmarshal(recommendationsRaw, &student.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode stored recommendations: %w", err)
		}
	}

	return student, nil
}
