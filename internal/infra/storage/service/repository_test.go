package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func TestList_BuildsCatalogFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	bucket := domain.DurationMedium
	category := domain.CategoryDental

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM services WHERE is_active = $1 AND (name ILIKE $2 OR description ILIKE $3) AND category = $4 AND price >= $5 AND (duration_minutes > $6 AND duration_minutes <= $7) ORDER BY price DESC, name ASC, id ASC")).
		WithArgs(true, "%check%", "%check%", "dental", sqlmock.AnyArg(), 30, 60).
		WillReturnRows(sqlmock.NewRows(selectColumns))

	_, err = repo.List(context.Background(), domain.ServiceFilter{
		Search:   ptr.Ptr("check"),
		Category: &category,
		MinPrice: ptr.Ptr(decimal.RequireFromString("10")),
		Duration: &bucket,
		Sort:     domain.SortByPriceHigh,
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("FROM services WHERE id = \\$1$").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(selectColumns))

	_, err = repo.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestList_SearchMatchesWildcardsLiterally(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		pattern string
	}{
		{name: "underscore", search: "_", pattern: `%\_%`},
		{name: "percent", search: "10%", pattern: `%10\%%`},
		{name: "backslash", search: `a\b`, pattern: `%a\\b%`},
		{name: "plain text", search: "X-Ray", pattern: "%X-Ray%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE is_active = $1 AND (name ILIKE $2 OR description ILIKE $3)")).
				WithArgs(true, tt.pattern, tt.pattern).
				WillReturnRows(sqlmock.NewRows(selectColumns))

			_, err = repo.List(context.Background(), domain.ServiceFilter{Search: ptr.Ptr(tt.search)})

			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
