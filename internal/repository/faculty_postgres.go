package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/acme/faculty/internal/criteria"
	"github.com/acme/faculty/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Unique constraint names from migrations/000001_create_faculty.up.sql.
const (
	constraintFacultyName = "faculty_name_key"
	constraintDeanName    = "dean_name_key"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type postgresFacultyRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewPostgresFacultyRepository stores faculties in the faculty, dean and course tables.
func NewPostgresFacultyRepository(pool *pgxpool.Pool) FacultyRepository {
	return &postgresFacultyRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresFacultyRepository) baseSelect() sq.SelectBuilder {
	return r.sb.Select(
		"f.id", "f.version", "f.name", "f.created_at", "f.updated_at",
		"d.name", "d.email",
	).
		From("faculty f").
		Join("dean d ON d.faculty_id = f.id").
		OrderBy("f.name ASC", "f.id ASC")
}

func (r *postgresFacultyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Faculty, error) {
	faculties, err := r.load(ctx, r.pool, r.baseSelect().Where(sq.Eq{"f.id": id}))
	if err != nil {
		return nil, err
	}
	if len(faculties) == 0 {
		return nil, ErrNotFound
	}
	return faculties[0], nil
}

func (r *postgresFacultyRepository) GetAll(ctx context.Context) ([]*model.Faculty, error) {
	return r.load(ctx, r.pool, r.baseSelect())
}

func (r *postgresFacultyRepository) GetByNameSubstring(ctx context.Context, s string) ([]*model.Faculty, error) {
	return r.load(ctx, r.pool, r.baseSelect().Where(containsExpr("f.name", s, false)))
}

func (r *postgresFacultyRepository) GetByDeanSubstring(ctx context.Context, s string) ([]*model.Faculty, error) {
	return r.load(ctx, r.pool, r.baseSelect().Where(containsExpr("d.name", s, false)))
}

func (r *postgresFacultyRepository) GetByCourseSubstring(ctx context.Context, s string) ([]*model.Faculty, error) {
	return r.load(ctx, r.pool, r.baseSelect().Where(courseExistsExpr(s, false)))
}

func (r *postgresFacultyRepository) FindMatching(ctx context.Context, c criteria.Criteria) ([]*model.Faculty, error) {
	return r.load(ctx, r.pool, r.baseSelect().Where(compoundFilter(c)))
}

// compoundFilter ANDs one case-insensitive substring predicate per condition.
// The course predicate is an EXISTS subquery so a faculty appears once.
func compoundFilter(c criteria.Criteria) sq.And {
	and := sq.And{}
	for _, cond := range c.Conditions {
		switch cond.Field {
		case criteria.FieldName:
			and = append(and, containsExpr("f.name", cond.Value, true))
		case criteria.FieldDean:
			and = append(and, containsExpr("d.name", cond.Value, true))
		case criteria.FieldCourse:
			and = append(and, courseExistsExpr(cond.Value, true))
		}
	}
	return and
}

// containsExpr uses strpos rather than LIKE so % and _ in s match literally.
func containsExpr(column, s string, ignoreCase bool) sq.Sqlizer {
	if ignoreCase {
		return sq.Expr(fmt.Sprintf("strpos(lower(%s), lower(?)) > 0", column), s)
	}
	return sq.Expr(fmt.Sprintf("strpos(%s, ?) > 0", column), s)
}

func courseExistsExpr(s string, ignoreCase bool) sq.Sqlizer {
	pred := "strpos(c.name, ?) > 0"
	if ignoreCase {
		pred = "strpos(lower(c.name), lower(?)) > 0"
	}
	return sq.Expr("EXISTS (SELECT 1 FROM course c WHERE c.faculty_id = f.id AND "+pred+")", s)
}

func (r *postgresFacultyRepository) Insert(ctx context.Context, f *model.Faculty) (*model.Faculty, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin insert faculty: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stored := f.Clone()
	stored.ID = uuid.New()
	stored.Version = 0

	sql, args, err := r.sb.Insert("faculty").
		Columns("id", "version", "name").
		Values(stored.ID, stored.Version, stored.Name).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert faculty: %w", err)
	}
	if err := tx.QueryRow(ctx, sql, args...).Scan(&stored.CreatedAt, &stored.UpdatedAt); err != nil {
		return nil, classifyWriteError("insert faculty", err)
	}

	if err := r.insertDean(ctx, tx, stored.ID, stored.Dean); err != nil {
		return nil, err
	}
	if err := r.insertCourses(ctx, tx, stored.ID, stored.Courses); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyWriteError("commit insert faculty", err)
	}
	return stored, nil
}

// CompareAndSwap conditions the UPDATE on the version column. The row lock it
// takes serializes concurrent writers on the same id; a writer that waited
// re-evaluates the predicate and sees zero rows.
func (r *postgresFacultyRepository) CompareAndSwap(ctx context.Context, id uuid.UUID, expectedVersion int, f *model.Faculty) (*model.Faculty, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update faculty: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	next := f.Clone()
	next.ID = id

	sql, args, err := r.sb.Update("faculty").
		Set("name", next.Name).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "version": expectedVersion}).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update faculty: %w", err)
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&next.Version, &next.CreatedAt, &next.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missOrMismatch(ctx, tx, id)
	}
	if err != nil {
		return nil, classifyWriteError("update faculty", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE dean SET name = $1, email = $2 WHERE faculty_id = $3`,
		next.Dean.Name, next.Dean.Email, id,
	); err != nil {
		return nil, classifyWriteError("update dean", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM course WHERE faculty_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete courses: %w", err)
	}
	if err := r.insertCourses(ctx, tx, id, next.Courses); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyWriteError("commit update faculty", err)
	}
	return next, nil
}

func (r *postgresFacultyRepository) missOrMismatch(ctx context.Context, q querier, id uuid.UUID) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM faculty WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("probe faculty: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionMismatch
}

func (r *postgresFacultyRepository) insertDean(ctx context.Context, q querier, facultyID uuid.UUID, d model.Dean) error {
	if _, err := q.Exec(ctx,
		`INSERT INTO dean (faculty_id, name, email) VALUES ($1, $2, $3)`,
		facultyID, d.Name, d.Email,
	); err != nil {
		return classifyWriteError("insert dean", err)
	}
	return nil
}

func (r *postgresFacultyRepository) insertCourses(ctx context.Context, q querier, facultyID uuid.UUID, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ins := r.sb.Insert("course").Columns("faculty_id", "idx", "name")
	for i, c := range courses {
		ins = ins.Values(facultyID, i, c.Name)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert courses: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return classifyWriteError("insert courses", err)
	}
	return nil
}

// load runs the faculty+dean select, then fetches all courses of the result
// in one query and attaches them in idx order.
func (r *postgresFacultyRepository) load(ctx context.Context, q querier, sel sq.SelectBuilder) ([]*model.Faculty, error) {
	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build faculty query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query faculties: %w", err)
	}
	defer rows.Close()

	faculties := []*model.Faculty{}
	byID := map[uuid.UUID]*model.Faculty{}
	ids := []uuid.UUID{}
	for rows.Next() {
		f := &model.Faculty{}
		if err := rows.Scan(&f.ID, &f.Version, &f.Name, &f.CreatedAt, &f.UpdatedAt, &f.Dean.Name, &f.Dean.Email); err != nil {
			return nil, fmt.Errorf("scan faculty: %w", err)
		}
		faculties = append(faculties, f)
		byID[f.ID] = f
		ids = append(ids, f.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faculties: %w", err)
	}
	if len(ids) == 0 {
		return faculties, nil
	}

	courseRows, err := q.Query(ctx,
		`SELECT faculty_id, name FROM course WHERE faculty_id = ANY($1) ORDER BY faculty_id, idx`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer courseRows.Close()

	for courseRows.Next() {
		var facultyID uuid.UUID
		var c model.Course
		if err := courseRows.Scan(&facultyID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		if f, ok := byID[facultyID]; ok {
			f.Courses = append(f.Courses, c)
		}
	}
	if err := courseRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return faculties, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique violation error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// classifyWriteError maps unique violations onto collection errors.
func classifyWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if isUniqueViolation(err) && errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case constraintFacultyName:
			return ErrDuplicateName
		case constraintDeanName:
			return ErrDuplicateDean
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
