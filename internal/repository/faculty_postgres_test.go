package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/acme/faculty/internal/criteria"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompoundFilter_SQL(t *testing.T) {
	c, err := criteria.Normalize(map[string][]string{"name": {"iwi"}, "course": {"50%_off"}})
	require.NoError(t, err)

	sql, args, err := compoundFilter(c).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"(strpos(lower(f.name), lower(?)) > 0 AND EXISTS (SELECT 1 FROM course c WHERE c.faculty_id = f.id AND strpos(lower(c.name), lower(?)) > 0))",
		sql)
	assert.Equal(t, []interface{}{"iwi", "50%_off"}, args)
}

func TestContainsExpr_CaseSensitiveVariant(t *testing.T) {
	sql, args, err := containsExpr("d.name", "Nees", false).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "strpos(d.name, ?) > 0", sql)
	assert.Equal(t, []interface{}{"Nees"}, args)
}

func TestBaseSelect_OrdersByName(t *testing.T) {
	r := NewPostgresFacultyRepository(nil).(*postgresFacultyRepository)
	sql, _, err := r.baseSelect().ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "JOIN dean d ON d.faculty_id = f.id")
	assert.Contains(t, sql, "ORDER BY f.name ASC, f.id ASC")
}

func TestClassifyWriteError(t *testing.T) {
	nameErr := &pgconn.PgError{Code: "23505", ConstraintName: constraintFacultyName}
	deanErr := &pgconn.PgError{Code: "23505", ConstraintName: constraintDeanName}
	otherErr := &pgconn.PgError{Code: "23503"}

	assert.ErrorIs(t, classifyWriteError("op", fmt.Errorf("wrapped: %w", nameErr)), ErrDuplicateName)
	assert.ErrorIs(t, classifyWriteError("op", deanErr), ErrDuplicateDean)

	err := classifyWriteError("insert dean", otherErr)
	assert.False(t, errors.Is(err, ErrDuplicateDean))
	assert.Contains(t, err.Error(), "insert dean")
}
