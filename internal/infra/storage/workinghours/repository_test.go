package workinghours

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consultation-booking-service/internal/domain"
	"github.com/m04kA/consultation-booking-service/pkg/types"
)

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	updated := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT work_start, work_end, session_duration_minutes, updated_at FROM working_hours WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"work_start", "work_end", "session_duration_minutes", "updated_at"}).
			AddRow("10:00:00", "19:00:00", 50, updated))

	cfg, err := NewRepository(db).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.MustFromString("10:00"), cfg.WorkStart)
	assert.Equal(t, types.MustFromString("19:00"), cfg.WorkEnd)
	assert.Equal(t, 50, cfg.SessionDurationMinutes)
	assert.Equal(t, updated, cfg.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM working_hours").
		WillReturnRows(sqlmock.NewRows([]string{"work_start", "work_end", "session_duration_minutes", "updated_at"}))

	_, err = NewRepository(db).Get(context.Background())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	updated := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO working_hours (id,work_start,work_end,session_duration_minutes) VALUES ($1,$2,$3,$4) ON CONFLICT (id) DO UPDATE")).
		WithArgs(1, "09:30", "17:30", 45).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

	cfg, err := domain.NewWorkingHoursConfig("09:30", "17:30", 45)
	require.NoError(t, err)

	saved, err := NewRepository(db).Save(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, updated, saved.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
