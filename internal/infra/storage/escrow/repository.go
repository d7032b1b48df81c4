package escrow

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DispatchService/pkg/psqlbuilder"
)

// Repository репозиторий эскроу-записей
// На одно бронирование существует не более одной записи (UNIQUE booking_id).
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория эскроу
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create открывает эскроу-запись со статусом held
func (r *Repository) Create(ctx context.Context, rec *domain.EscrowRecord) (*domain.EscrowRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("escrow_records").
		Columns(
			"booking_id",
			"amount",
			"commission_rate",
			"commission_amount",
			"net_payout_amount",
			"status",
			"gateway_transaction_id",
		).
		Values(
			rec.BookingID,
			rec.Amount,
			rec.CommissionRate,
			rec.CommissionAmount,
			rec.NetPayoutAmount,
			rec.Status,
			rec.GatewayTransactionID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &createdAt)
	if err != nil {
		// Уникальный индекс по booking_id: вторая запись не создается
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rec.CreatedAt = createdAt.Time

	return rec, nil
}

// GetByBookingID получает эскроу-запись бронирования
// Внутри транзакции блокирует строку (FOR UPDATE).
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.EscrowRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"booking_id",
		"amount",
		"commission_rate",
		"commission_amount",
		"net_payout_amount",
		"status",
		"gateway_transaction_id",
		"created_at",
		"released_at",
		"refunded_at",
	).
		From("escrow_records").
		Where(squirrel.Eq{"booking_id": bookingID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var rec domain.EscrowRecord
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&rec.BookingID,
		&rec.Amount,
		&rec.CommissionRate,
		&rec.CommissionAmount,
		&rec.NetPayoutAmount,
		&rec.Status,
		&rec.GatewayTransactionID,
		&createdAt,
		&rec.ReleasedAt,
		&rec.RefundedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan record: %v", ErrScanRow, err)
	}

	rec.CreatedAt = createdAt.Time

	return &rec, nil
}

// Release переводит запись held -> released
// Условие status = 'held' делает расчет одноразовым: повторный вызов
// или гонка release/refund вернет ErrAlreadySettled.
func (r *Repository) Release(ctx context.Context, bookingID int64) error {
	return r.settle(ctx, "Release", bookingID,
		psqlbuilder.Update("escrow_records").
			Set("status", domain.EscrowReleased).
			Set("released_at", squirrel.Expr("NOW()")),
	)
}

// Refund переводит запись held -> refunded
func (r *Repository) Refund(ctx context.Context, bookingID int64) error {
	return r.settle(ctx, "Refund", bookingID,
		psqlbuilder.Update("escrow_records").
			Set("status", domain.EscrowRefunded).
			Set("refunded_at", squirrel.Expr("NOW()")),
	)
}

func (r *Repository) settle(ctx context.Context, op string, bookingID int64, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"status": domain.EscrowHeld}).
		ToSql()

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
		// Либо записи нет, либо она уже рассчитана. Различаем отдельным чтением.
		if _, getErr := r.GetByBookingID(ctx, bookingID); getErr != nil {
			return getErr
		}
		return ErrAlreadySettled
	}

	return nil
}
