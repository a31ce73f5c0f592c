package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const foreignKeyViolation = "23503"

// DBExecutor переиспользуем интерфейс из dbmetrics
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий слотов расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var selectColumns = []string{
	"id",
	"service_id",
	"day_of_week",
	"start_time",
	"end_time",
	"capacity",
	"is_available",
	"created_at",
	"updated_at",
}

// Create создает слот
func (r *Repository) Create(ctx context.Context, s *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_slots").
		Columns(
			"service_id",
			"day_of_week",
			"start_time",
			"end_time",
			"capacity",
			"is_available",
		).
		Values(
			s.ServiceID,
			int(s.DayOfWeek),
			s.StartTime,
			s.EndTime,
			s.Capacity,
			s.IsAvailable,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return nil, ErrServiceReference
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return s, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("availability_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}
	return s, nil
}

// ListByService все слоты услуги, включая закрытые
func (r *Repository) ListByService(ctx context.Context, serviceID int64) ([]*domain.AvailabilitySlot, error) {
	return r.list(ctx, "ListByService",
		psqlbuilder.Select(selectColumns...).
			From("availability_slots").
			Where(squirrel.Eq{"service_id": serviceID}).
			OrderBy("day_of_week ASC", "start_time ASC", "id ASC"))
}

// ListForWeekday открытые слоты услуги на день недели
func (r *Repository) ListForWeekday(ctx context.Context, serviceID int64, weekday domain.Weekday) ([]*domain.AvailabilitySlot, error) {
	return r.list(ctx, "ListForWeekday",
		psqlbuilder.Select(selectColumns...).
			From("availability_slots").
			Where(squirrel.Eq{
				"service_id":   serviceID,
				"day_of_week":  int(weekday),
				"is_available": true,
			}).
			OrderBy("start_time ASC", "id ASC"))
}

// ListCovering открытые слоты услуги на день недели, покрывающие время at: start_time <= at < end_time.
// Порядок стабильный: по времени начала, затем по id.
// Внутри транзакции строки блокируются (FOR UPDATE), что сериализует конкурентные записи на одни и те же слоты.
func (r *Repository) ListCovering(ctx context.Context, serviceID int64, weekday domain.Weekday, at types.TimeString) ([]*domain.AvailabilitySlot, error) {
	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("availability_slots").
		Where(squirrel.Eq{
			"service_id":   serviceID,
			"day_of_week":  int(weekday),
			"is_available": true,
		}).
		Where(squirrel.LtOrEq{"start_time": at}).
		Where(squirrel.Gt{"end_time": at}).
		OrderBy("start_time ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.list(ctx, "ListCovering", selectBuilder)
}

// Update сохраняет изменения слота
func (r *Repository) Update(ctx context.Context, s *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_slots").
		Set("day_of_week", int(s.DayOfWeek)).
		Set("start_time", s.StartTime).
		Set("end_time", s.EndTime).
		Set("capacity", s.Capacity).
		Set("is_available", s.IsAvailable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	s.UpdatedAt = updatedAt.Time
	return s, nil
}

// Delete удаляет слот. Записи не ссылаются на слоты, история не теряется.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, op string, b squirrel.SelectBuilder) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]*domain.AvailabilitySlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return slots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.AvailabilitySlot, error) {
	var s domain.AvailabilitySlot
	var weekday int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ServiceID,
		&weekday,
		&s.StartTime,
		&s.EndTime,
		&s.Capacity,
		&s.IsAvailable,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.DayOfWeek = domain.Weekday(weekday)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return &s, nil
}
