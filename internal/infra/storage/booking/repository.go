package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
	"github.com/m04kA/SMC-DispatchService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"reference_code",
	"customer_id",
	"provider_id",
	"service_id",
	"status",
	"request_status",
	"payment_status",
	"scheduled_at",
	"estimated_duration_minutes",
	"job_size",
	"base_price",
	"job_size_multiplier",
	"location_multiplier",
	"calculated_price",
	"job_latitude",
	"job_longitude",
	"job_address",
	"customer_latitude",
	"customer_longitude",
	"provider_latitude",
	"provider_longitude",
	"first_proximity_at",
	"can_start_job",
	"provider_accepted_at",
	"provider_declined_at",
	"started_at",
	"completed_at",
	"cancelled_at",
	"decline_reason",
	"cancellation_reason",
	"cancelled_by",
	"actual_duration_minutes",
	"sla_breached",
	"sla_penalty_amount",
	"provider_payout_amount",
	"rating_by_customer",
	"review_by_customer",
	"rating_by_provider",
	"review_by_provider",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование со снапшотом цены
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"reference_code",
			"customer_id",
			"provider_id",
			"service_id",
			"status",
			"request_status",
			"payment_status",
			"scheduled_at",
			"estimated_duration_minutes",
			"job_size",
			"base_price",
			"job_size_multiplier",
			"location_multiplier",
			"calculated_price",
			"job_latitude",
			"job_longitude",
			"job_address",
			"notes",
		).
		Values(
			b.ReferenceCode,
			b.CustomerID,
			b.ProviderID,
			b.ServiceID,
			b.Status,
			b.RequestStatus,
			b.PaymentStatus,
			b.ScheduledAt,
			b.EstimatedDurationMinutes,
			b.JobSize,
			b.BasePrice,
			b.JobSizeMultiplier,
			b.LocationMultiplier,
			b.CalculatedPrice,
			b.JobLocation.Latitude,
			b.JobLocation.Longitude,
			b.JobAddress,
			b.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции блокирует строку (FOR UPDATE): все переходы по одному
// бронированию выполняются строго последовательно.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByUserID получает бронирования, где пользователь является заказчиком
// или исполнителем, опционально фильтруя по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Or{
			squirrel.Eq{"customer_id": userID},
			squirrel.Eq{"provider_id": userID},
		}).
		OrderBy("scheduled_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountActiveByProvider подсчитывает активные бронирования исполнителя
// Используется матчером для проверки занятости
func (r *Repository) CountActiveByProvider(ctx context.Context, providerID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByProvider - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByProvider - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// SaveAcceptance сохраняет принятие заявки исполнителем
// Условие request_status = 'pending' гарантирует, что из гонки
// accept/decline выигрывает ровно один переход.
func (r *Repository) SaveAcceptance(ctx context.Context, b *domain.Booking) error {
	return r.guardedUpdate(ctx, "SaveAcceptance",
		psqlbuilder.Update("bookings").
			Set("request_status", b.RequestStatus).
			Set("status", b.Status).
			Set("provider_accepted_at", b.ProviderAcceptedAt).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"request_status": domain.RequestPending}),
	)
}

// SaveDecline сохраняет отклонение заявки исполнителем
func (r *Repository) SaveDecline(ctx context.Context, b *domain.Booking) error {
	return r.guardedUpdate(ctx, "SaveDecline",
		psqlbuilder.Update("bookings").
			Set("request_status", b.RequestStatus).
			Set("status", b.Status).
			Set("decline_reason", b.DeclineReason).
			Set("provider_declined_at", b.ProviderDeclinedAt).
			Set("cancelled_at", b.CancelledAt).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"request_status": domain.RequestPending}),
	)
}

// SavePayment помечает бронирование оплаченным в эскроу
// Условие payment_status = 'unpaid' защищает от дублирующего callback'а оплаты.
func (r *Repository) SavePayment(ctx context.Context, b *domain.Booking) error {
	return r.guardedUpdate(ctx, "SavePayment",
		psqlbuilder.Update("bookings").
			Set("payment_status", b.PaymentStatus).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"payment_status": domain.PaymentUnpaid}).
			Where(squirrel.Eq{"request_status": domain.RequestAccepted}),
	)
}

// SaveTracking сохраняет последние координаты сторон и состояние proximity gate
func (r *Repository) SaveTracking(ctx context.Context, b *domain.Booking) error {
	var custLat, custLon, provLat, provLon interface{}
	if b.CustomerLocation != nil {
		custLat, custLon = b.CustomerLocation.Latitude, b.CustomerLocation.Longitude
	}
	if b.ProviderLocation != nil {
		provLat, provLon = b.ProviderLocation.Latitude, b.ProviderLocation.Longitude
	}

	return r.guardedUpdate(ctx, "SaveTracking",
		psqlbuilder.Update("bookings").
			Set("customer_latitude", custLat).
			Set("customer_longitude", custLon).
			Set("provider_latitude", provLat).
			Set("provider_longitude", provLon).
			Set("first_proximity_at", b.FirstProximityAt).
			Set("can_start_job", b.CanStartJob).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"status": []string{
				string(domain.StatusConfirmed),
				string(domain.StatusInProgress),
			}}),
	)
}

// SaveStart помечает работу начатой
// Условие can_start_job = true дублирует доменный guard на случай
// конкурирующего сброса gate.
func (r *Repository) SaveStart(ctx context.Context, b *domain.Booking) error {
	return r.guardedUpdate(ctx, "SaveStart",
		psqlbuilder.Update("bookings").
			Set("status", b.Status).
			Set("started_at", b.StartedAt).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"status": domain.StatusConfirmed}).
			Where(squirrel.Eq{"can_start_job": true}),
	)
}

// SaveCompletion сохраняет завершение работы и результат проверки SLA
func (r *Repository) SaveCompletion(ctx context.Context, b *domain.Booking) error {
	return r.guardedUpdate(ctx, "SaveCompletion",
		psqlbuilder.Update("bookings").
			Set("status", b.Status).
			Set("completed_at", b.CompletedAt).
			Set("actual_duration_minutes", b.ActualDurationMinutes).
			Set("sla_breached", b.SLABreached).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"status": domain.StatusInProgress}),
	)
}

// SaveSettlement сохраняет итог расчета: статус платежа, штраф и выплату
func (r *Repository) SaveSettlement(ctx context.Context, b *domain.Booking) error {
	return r.guardedUpdate(ctx, "SaveSettlement",
		psqlbuilder.Update("bookings").
			Set("payment_status", b.PaymentStatus).
			Set("sla_penalty_amount", b.SLAPenaltyAmount).
			Set("provider_payout_amount", b.ProviderPayoutAmount).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"payment_status": domain.PaymentPaidToEscrow}),
	)
}

// SaveCancellation сохраняет отмену бронирования
func (r *Repository) SaveCancellation(ctx context.Context, b *domain.Booking) error {
	return r.guardedUpdate(ctx, "SaveCancellation",
		psqlbuilder.Update("bookings").
			Set("status", b.Status).
			Set("cancellation_reason", b.CancellationReason).
			Set("cancelled_by", b.CancelledBy).
			Set("cancelled_at", b.CancelledAt).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.NotEq{"status": statusStrings(domain.TerminalStatuses)}),
	)
}

// SaveRating сохраняет оценку одной из сторон
func (r *Repository) SaveRating(ctx context.Context, b *domain.Booking) error {
	return r.guardedUpdate(ctx, "SaveRating",
		psqlbuilder.Update("bookings").
			Set("rating_by_customer", b.RatingByCustomer).
			Set("review_by_customer", b.ReviewByCustomer).
			Set("rating_by_provider", b.RatingByProvider).
			Set("review_by_provider", b.ReviewByProvider).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": b.ID}).
			Where(squirrel.Eq{"status": domain.StatusCompleted}),
	)
}

// guardedUpdate выполняет условное обновление
// 0 затронутых строк означает, что guard-условие не выполнилось:
// статус изменился конкурентно (или бронирование не существует).
func (r *Repository) guardedUpdate(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в domain.Booking
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var (
		createdAt, updatedAt               sql.NullTime
		custLat, custLon, provLat, provLon sql.NullFloat64
		cancelledBy                        sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.ReferenceCode,
		&b.CustomerID,
		&b.ProviderID,
		&b.ServiceID,
		&b.Status,
		&b.RequestStatus,
		&b.PaymentStatus,
		&b.ScheduledAt,
		&b.EstimatedDurationMinutes,
		&b.JobSize,
		&b.BasePrice,
		&b.JobSizeMultiplier,
		&b.LocationMultiplier,
		&b.CalculatedPrice,
		&b.JobLocation.Latitude,
		&b.JobLocation.Longitude,
		&b.JobAddress,
		&custLat,
		&custLon,
		&provLat,
		&provLon,
		&b.FirstProximityAt,
		&b.CanStartJob,
		&b.ProviderAcceptedAt,
		&b.ProviderDeclinedAt,
		&b.StartedAt,
		&b.CompletedAt,
		&b.CancelledAt,
		&b.DeclineReason,
		&b.CancellationReason,
		&cancelledBy,
		&b.ActualDurationMinutes,
		&b.SLABreached,
		&b.SLAPenaltyAmount,
		&b.ProviderPayoutAmount,
		&b.RatingByCustomer,
		&b.ReviewByCustomer,
		&b.RatingByProvider,
		&b.ReviewByProvider,
		&b.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if custLat.Valid && custLon.Valid {
		b.CustomerLocation = &geo.Coordinates{Latitude: custLat.Float64, Longitude: custLon.Float64}
	}
	if provLat.Valid && provLon.Valid {
		b.ProviderLocation = &geo.Coordinates{Latitude: provLat.Float64, Longitude: provLon.Float64}
	}
	if cancelledBy.Valid {
		role := domain.PartyRole(cancelledBy.String)
		b.CancelledBy = &role
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// statusStrings конвертирует статусы в []string для squirrel
func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
