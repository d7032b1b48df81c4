package find_providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/internal/service/pricing"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
	"github.com/m04kA/SMC-DispatchService/pkg/ptr"
)

var jobSite = geo.Coordinates{Latitude: -26.2041, Longitude: 28.0473}

type fakeProviderRepo struct {
	providers []*domain.ProviderSnapshot
	err       error
}

func (r *fakeProviderRepo) ListOnline(_ context.Context) ([]*domain.ProviderSnapshot, error) {
	return r.providers, r.err
}

type fakeBookingRepo struct {
	activeByProvider map[int64]int
}

func (r *fakeBookingRepo) CountActiveByProvider(_ context.Context, providerID int64) (int, error) {
	return r.activeByProvider[providerID], nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func eligibleProvider(id int64) *domain.ProviderSnapshot {
	return &domain.ProviderSnapshot{
		ID:                id,
		Name:              "Thabo M.",
		Online:            true,
		Skills:            []string{"plumbing", "tiling"},
		IdentityVerified:  true,
		ProfileComplete:   true,
		ServiceAreaCenter: jobSite,
		ServiceRadiusKm:   20,
		Rating:            4.0,
		ExperienceYears:   5,
	}
}

func testPricing() *pricing.Service {
	return pricing.NewService(pricing.Config{
		JobSizeMultipliers:  map[string]float64{"small": 0.8, "medium": 1.0, "large": 1.4},
		LocationMultipliers: map[string]float64{"Sandton": 1.3},
		DefaultMultiplier:   1.0,
	})
}

func newTestUseCase(providers []*domain.ProviderSnapshot, active map[int64]int) *UseCase {
	return NewUseCase(
		&fakeProviderRepo{providers: providers},
		&fakeBookingRepo{activeByProvider: active},
		testPricing(),
		50,
		nopLogger{},
	)
}

func searchRequest() *Request {
	return &Request{
		JobLocation: jobSite,
		JobAddress:  ptr.Ptr("12 Rivonia Rd, Sandton"),
		Skills:      []string{"plumbing"},
		BasePrice:   500,
	}
}

func TestExecute_Ranking(t *testing.T) {
	ctx := context.Background()

	strong := eligibleProvider(1)
	strong.Rating = 4.8
	strong.ExperienceYears = 12 // стаж упирается в потолок 10

	average := eligibleProvider(2)
	average.Rating = 4.0
	average.ExperienceYears = 3

	weak := eligibleProvider(3)
	weak.Rating = 3.0
	weak.ExperienceYears = 1

	uc := newTestUseCase([]*domain.ProviderSnapshot{weak, strong, average}, nil)

	resp, err := uc.Execute(ctx, searchRequest())

	require.NoError(t, err)
	require.Len(t, resp.Candidates, 3)
	assert.Equal(t, int64(1), resp.Candidates[0].ProviderID)
	assert.Equal(t, int64(2), resp.Candidates[1].ProviderID)
	assert.Equal(t, int64(3), resp.Candidates[2].ProviderID)

	// rating*20 + proximity(100 при нулевой дистанции) + min(exp,10)*2
	assert.InDelta(t, 4.8*20+100+20, resp.Candidates[0].Score, 1e-9)
	assert.InDelta(t, 1.3, resp.LocationMultiplier, 1e-9)

	// 500 * 1.0 (medium по умолчанию) * 1.3 (Sandton)
	assert.InDelta(t, 650, resp.EstimatedPrice, 1e-9)
	for _, c := range resp.Candidates {
		assert.InDelta(t, 650, c.EstimatedPrice, 1e-9)
	}
}

func TestExecute_TieBreakByProviderID(t *testing.T) {
	first := eligibleProvider(5)
	second := eligibleProvider(2)

	uc := newTestUseCase([]*domain.ProviderSnapshot{first, second}, nil)

	resp, err := uc.Execute(context.Background(), searchRequest())

	require.NoError(t, err)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, int64(2), resp.Candidates[0].ProviderID)
	assert.Equal(t, int64(5), resp.Candidates[1].ProviderID)
}

func TestExecute_Filters(t *testing.T) {
	ctx := context.Background()

	t.Run("offline provider is skipped", func(t *testing.T) {
		p := eligibleProvider(1)
		p.Online = false
		uc := newTestUseCase([]*domain.ProviderSnapshot{p}, nil)

		resp, err := uc.Execute(ctx, searchRequest())

		require.NoError(t, err)
		assert.Empty(t, resp.Candidates)
	})

	t.Run("busy flag is skipped", func(t *testing.T) {
		p := eligibleProvider(1)
		p.Busy = true
		uc := newTestUseCase([]*domain.ProviderSnapshot{p}, nil)

		resp, err := uc.Execute(ctx, searchRequest())

		require.NoError(t, err)
		assert.Empty(t, resp.Candidates)
	})

	t.Run("partially verified provider is skipped", func(t *testing.T) {
		p := eligibleProvider(1)
		p.ProfileComplete = false
		uc := newTestUseCase([]*domain.ProviderSnapshot{p}, nil)

		resp, err := uc.Execute(ctx, searchRequest())

		require.NoError(t, err)
		assert.Empty(t, resp.Candidates)
	})

	t.Run("no overlapping skill is skipped", func(t *testing.T) {
		p := eligibleProvider(1)
		p.Skills = []string{"electrical"}
		uc := newTestUseCase([]*domain.ProviderSnapshot{p}, nil)

		resp, err := uc.Execute(ctx, searchRequest())

		require.NoError(t, err)
		assert.Empty(t, resp.Candidates)
	})

	t.Run("job outside the provider's service area is skipped", func(t *testing.T) {
		p := eligibleProvider(1)
		// Претория примерно в 53 км при радиусе обслуживания 20 км
		p.ServiceAreaCenter = geo.Coordinates{Latitude: -25.7479, Longitude: 28.2293}
		uc := newTestUseCase([]*domain.ProviderSnapshot{p}, nil)

		resp, err := uc.Execute(ctx, searchRequest())

		require.NoError(t, err)
		assert.Empty(t, resp.Candidates)
	})

	t.Run("job outside the platform search radius is skipped", func(t *testing.T) {
		p := eligibleProvider(1)
		p.ServiceAreaCenter = geo.Coordinates{Latitude: -25.7479, Longitude: 28.2293}
		p.ServiceRadiusKm = 200
		uc := NewUseCase(
			&fakeProviderRepo{providers: []*domain.ProviderSnapshot{p}},
			&fakeBookingRepo{},
			testPricing(),
			30,
			nopLogger{},
		)

		resp, err := uc.Execute(ctx, searchRequest())

		require.NoError(t, err)
		assert.Empty(t, resp.Candidates)
	})

	t.Run("customer radius narrows the search", func(t *testing.T) {
		near := eligibleProvider(1)
		// Рэндбург примерно в 12 км: в радиусе исполнителя и платформы,
		// но за пределами радиуса, заданного заказчиком
		far := eligibleProvider(2)
		far.ServiceAreaCenter = geo.Coordinates{Latitude: -26.0936, Longitude: 28.0064}
		far.ServiceRadiusKm = 30

		uc := newTestUseCase([]*domain.ProviderSnapshot{near, far}, nil)

		req := searchRequest()
		req.MaxDistanceKm = 5

		resp, err := uc.Execute(ctx, req)

		require.NoError(t, err)
		require.Len(t, resp.Candidates, 1)
		assert.Equal(t, int64(1), resp.Candidates[0].ProviderID)
	})

	t.Run("provider with an active booking is skipped", func(t *testing.T) {
		uc := newTestUseCase(
			[]*domain.ProviderSnapshot{eligibleProvider(1), eligibleProvider(2)},
			map[int64]int{1: 1},
		)

		resp, err := uc.Execute(ctx, searchRequest())

		require.NoError(t, err)
		require.Len(t, resp.Candidates, 1)
		assert.Equal(t, int64(2), resp.Candidates[0].ProviderID)
	})
}

func TestExecute_Limit(t *testing.T) {
	providers := []*domain.ProviderSnapshot{
		eligibleProvider(1), eligibleProvider(2), eligibleProvider(3),
	}
	uc := newTestUseCase(providers, nil)

	req := searchRequest()
	req.Limit = 2

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, resp.Candidates, 2)
}

func TestExecute_Validation(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase(nil, nil)

	t.Run("zero coordinates are rejected", func(t *testing.T) {
		req := searchRequest()
		req.JobLocation = geo.Coordinates{}

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidLocation)
	})

	t.Run("out-of-range coordinates are rejected", func(t *testing.T) {
		req := searchRequest()
		req.JobLocation = geo.Coordinates{Latitude: 91, Longitude: 0}

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidLocation)
	})

	t.Run("empty skills are rejected", func(t *testing.T) {
		req := searchRequest()
		req.Skills = nil

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("negative base price is rejected", func(t *testing.T) {
		req := searchRequest()
		req.BasePrice = -10

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("negative customer radius is rejected", func(t *testing.T) {
		req := searchRequest()
		req.MaxDistanceKm = -1

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_RepositoryFailure(t *testing.T) {
	uc := NewUseCase(
		&fakeProviderRepo{err: errors.New("connection refused")},
		&fakeBookingRepo{},
		testPricing(),
		50,
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), searchRequest())

	assert.ErrorIs(t, err, ErrInternal)
}
