package slot

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestListCovering_HalfOpenWindowAndLockInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM availability_slots WHERE day_of_week = $1 AND is_available = $2 AND service_id = $3 AND start_time <= $4 AND end_time > $5 ORDER BY start_time ASC, id ASC FOR UPDATE")).
		WithArgs(0, true, int64(3), "09:00:00", "09:00:00").
		WillReturnRows(sqlmock.NewRows(selectColumns).
			AddRow(int64(1), int64(3), 0, "09:00:00", "10:00:00", 1, true, now, now))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	slots, err := repo.ListCovering(dbmetrics.WithTx(context.Background(), tx), 3, domain.Monday, types.MustTimeString("09:00"))

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, domain.Monday, slots[0].DayOfWeek)
	assert.Equal(t, types.TimeString("10:00"), slots[0].EndTime)
	assert.Equal(t, 1, slots[0].Capacity)
}

func TestCreate_MapsForeignKeyViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("INSERT INTO availability_slots").
		WillReturnError(&pq.Error{Code: "23503"})

	_, err = repo.Create(context.Background(), &domain.AvailabilitySlot{
		ServiceID:   99,
		DayOfWeek:   domain.Monday,
		StartTime:   types.MustTimeString("09:00"),
		EndTime:     types.MustTimeString("10:00"),
		Capacity:    1,
		IsAvailable: true,
	})

	require.ErrorIs(t, err, ErrServiceReference)
}

func TestDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM availability_slots WHERE id = \\$1").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 4), ErrSlotNotFound)
}
