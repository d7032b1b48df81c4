package find_providers

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/internal/service/pricing"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// UseCase use case для подбора исполнителей под работу
//
// Кандидат проходит, если он онлайн, не занят активным бронированием,
// владеет хотя бы одним требуемым навыком, полностью верифицирован, работа
// попадает в его зону обслуживания, в общий радиус поиска платформы и в
// радиус, заданный заказчиком. Прошедшие ранжируются композитной оценкой:
// рейтинг, близость, стаж. Каждый кандидат аннотируется оценкой стоимости
// по ценовому движку.
type UseCase struct {
	providerRepo      ProviderRepository
	bookingRepo       BookingRepository
	pricing           PricingService
	maxSearchRadiusKm float64
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	providerRepo ProviderRepository,
	bookingRepo BookingRepository,
	pricingService PricingService,
	maxSearchRadiusKm float64,
	logger Logger,
) *UseCase {
	return &UseCase{
		providerRepo:      providerRepo,
		bookingRepo:       bookingRepo,
		pricing:           pricingService,
		maxSearchRadiusKm: maxSearchRadiusKm,
		logger:            logger,
	}
}

// Execute выполняет use case подбора исполнителей
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if !req.JobLocation.Valid() || req.JobLocation.IsZero() {
		return nil, ErrInvalidLocation
	}
	if len(req.Skills) == 0 {
		return nil, fmt.Errorf("%w: at least one skill is required", ErrInvalidInput)
	}
	if req.MaxDistanceKm < 0 {
		return nil, fmt.Errorf("%w: maxDistanceKm must not be negative", ErrInvalidInput)
	}

	// Оценка стоимости по тому же движку, что и при создании бронирования
	quote, err := uc.pricing.Quote(req.BasePrice, domain.JobSize(req.JobSize), req.JobAddress)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidBasePrice) {
			return nil, fmt.Errorf("%w: invalid base price", ErrInvalidInput)
		}
		uc.logger.Error("FindProviders: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
	}

	providers, err := uc.providerRepo.ListOnline(ctx)
	if err != nil {
		uc.logger.Error("FindProviders: failed to list online providers: %v", err)
		return nil, fmt.Errorf("%w: failed to list providers: %v", ErrInternal, err)
	}

	candidates := make([]*Candidate, 0, len(providers))
	for _, p := range providers {
		distanceKm, ok := uc.eligible(ctx, p, req)
		if !ok {
			continue
		}

		candidates = append(candidates, &Candidate{
			ProviderID:      p.ID,
			Name:            p.Name,
			Rating:          p.Rating,
			ExperienceYears: p.ExperienceYears,
			DistanceKm:      distanceKm,
			Score:           p.Score(distanceKm),
			EstimatedPrice:  quote.CalculatedPrice,
			Skills:          p.Skills,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		// Стабильный порядок при равной оценке
		return candidates[i].ProviderID < candidates[j].ProviderID
	})

	if req.Limit > 0 && len(candidates) > req.Limit {
		candidates = candidates[:req.Limit]
	}

	uc.logger.Info("FindProviders: %d of %d online providers matched", len(candidates), len(providers))

	return &Response{
		Candidates:         candidates,
		EstimatedPrice:     quote.CalculatedPrice,
		LocationMultiplier: quote.LocationMultiplier,
	}, nil
}

// eligible проверяет кандидата по всем фильтрам подбора
func (uc *UseCase) eligible(ctx context.Context, p *domain.ProviderSnapshot, req *Request) (float64, bool) {
	if !p.Online || p.Busy {
		return 0, false
	}
	if !p.FullyVerified() {
		return 0, false
	}
	if !p.HasAnySkill(req.Skills) {
		return 0, false
	}

	distanceKm := geo.DistanceKm(p.ServiceAreaCenter, req.JobLocation)
	if distanceKm > p.ServiceRadiusKm {
		return 0, false
	}
	if uc.maxSearchRadiusKm > 0 && distanceKm > uc.maxSearchRadiusKm {
		return 0, false
	}
	// Заказчик может сузить радиус поиска, но не расширить его сверх лимита
	if req.MaxDistanceKm > 0 && distanceKm > req.MaxDistanceKm {
		return 0, false
	}

	// Занятость сверяем с активными бронированиями, а не только с флагом
	active, err := uc.bookingRepo.CountActiveByProvider(ctx, p.ID)
	if err != nil {
		uc.logger.Warn("FindProviders: failed to count active bookings for provider=%d: %v", p.ID, err)
		return 0, false
	}
	if active > 0 {
		return 0, false
	}

	return distanceKm, true
}
