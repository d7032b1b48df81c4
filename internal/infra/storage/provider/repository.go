package provider

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DispatchService/pkg/psqlbuilder"
)

// Repository репозиторий пула исполнителей
// Таблица providers реплицируется из внешнего профиля исполнителя
// (онлайн-статус, навыки, верификация, зона обслуживания); busy-флаг
// снапшота вычисляется матчером по активным бронированиям.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория исполнителей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var providerColumns = []string{
	"id",
	"name",
	"online",
	"identity_verified",
	"profile_complete",
	"skills",
	"service_latitude",
	"service_longitude",
	"service_radius_km",
	"rating",
	"experience_years",
}

// GetByID получает исполнителя по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ProviderSnapshot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(providerColumns...).
		From("providers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanProvider(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan provider: %v", ErrScanRow, err)
	}

	return p, nil
}

// ListOnline получает всех исполнителей, находящихся онлайн
// Дальнейшая фильтрация (навыки, занятость, радиус) выполняется матчером.
func (r *Repository) ListOnline(ctx context.Context) ([]*domain.ProviderSnapshot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(providerColumns...).
		From("providers").
		Where(squirrel.Eq{"online": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOnline - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOnline - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	providers := make([]*domain.ProviderSnapshot, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOnline - scan row: %v", ErrScanRow, err)
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOnline - rows error: %v", ErrScanRow, err)
	}

	return providers, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*domain.ProviderSnapshot, error) {
	var p domain.ProviderSnapshot

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Online,
		&p.IdentityVerified,
		&p.ProfileComplete,
		pq.Array(&p.Skills),
		&p.ServiceAreaCenter.Latitude,
		&p.ServiceAreaCenter.Longitude,
		&p.ServiceRadiusKm,
		&p.Rating,
		&p.ExperienceYears,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
