package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConstraintErrors(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "teams_name_division_id_key"}
	wrapped := fmt.Errorf("insert team: %w", unique)

	name, ok := isUniqueViolation(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "teams_name_division_id_key", name)

	_, ok = isForeignKeyViolation(wrapped)
	assert.False(t, ok)

	_, ok = isCheckViolation(errors.New("plain"))
	assert.False(t, ok)

	name, ok = isCheckViolation(&pq.Error{Code: "23514", Constraint: "seasons_dates_check"})
	assert.True(t, ok)
	assert.Equal(t, "seasons_dates_check", name)
}

type fakeResult struct{ rows int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

func TestCheckAffectedRows(t *testing.T) {
	notFound := errors.New("missing")
	assert.ErrorIs(t, checkAffectedRows(fakeResult{0}, notFound), notFound)
	assert.NoError(t, checkAffectedRows(fakeResult{1}, notFound))
}

func TestNullableHelpers(t *testing.T) {
	v := 4
	assert.Equal(t, sql.NullInt64{Int64: 4, Valid: true}, nullableInt(&v))
	assert.False(t, nullableInt(nil).Valid)
	assert.Equal(t, &v, intPtr(sql.NullInt64{Int64: 4, Valid: true}))
	assert.Nil(t, intPtr(sql.NullInt64{}))
	assert.Nil(t, stringPtr(sql.NullString{}))
}
