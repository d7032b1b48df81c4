package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/pkg/ptr"
)

func newTestService() *Service {
	return NewService(Config{
		JobSizeMultipliers: map[string]float64{
			"small":  0.8,
			"medium": 1.0,
			"large":  1.4,
		},
		LocationMultipliers: map[string]float64{
			"Sandton":  1.3,
			"Rosebank": 1.2,
			"Soweto":   0.9,
		},
		DefaultMultiplier: 1.0,
	})
}

func TestQuote_PriceFormula(t *testing.T) {
	svc := newTestService()

	t.Run("medium job in premium area", func(t *testing.T) {
		quote, err := svc.Quote(500, domain.JobSizeMedium, ptr.Ptr("12 Rivonia Rd, Sandton, Johannesburg"))

		require.NoError(t, err)
		assert.Equal(t, 500.0, quote.BasePrice)
		assert.Equal(t, 1.0, quote.JobSizeMultiplier)
		assert.Equal(t, 1.3, quote.LocationMultiplier)
		assert.InDelta(t, 650, quote.CalculatedPrice, 1e-9)
	})

	t.Run("large job in unlisted area uses default multiplier", func(t *testing.T) {
		quote, err := svc.Quote(200, domain.JobSizeLarge, ptr.Ptr("Main St, Boksburg"))

		require.NoError(t, err)
		assert.Equal(t, 1.4, quote.JobSizeMultiplier)
		assert.Equal(t, 1.0, quote.LocationMultiplier)
		assert.InDelta(t, 280, quote.CalculatedPrice, 1e-9)
	})

	t.Run("small job with discount area", func(t *testing.T) {
		quote, err := svc.Quote(100, domain.JobSizeSmall, ptr.Ptr("Vilakazi St, Soweto"))

		require.NoError(t, err)
		assert.InDelta(t, 72, quote.CalculatedPrice, 1e-9) // 100 * 0.8 * 0.9
	})
}

func TestQuote_EdgeCases(t *testing.T) {
	svc := newTestService()

	t.Run("unknown job size falls back to medium", func(t *testing.T) {
		quote, err := svc.Quote(100, domain.JobSize("gigantic"), nil)

		require.NoError(t, err)
		assert.Equal(t, domain.JobSizeMedium, quote.JobSize)
		assert.Equal(t, 1.0, quote.JobSizeMultiplier)
	})

	t.Run("missing address uses default multiplier", func(t *testing.T) {
		quote, err := svc.Quote(100, domain.JobSizeMedium, nil)

		require.NoError(t, err)
		assert.Equal(t, 1.0, quote.LocationMultiplier)
	})

	t.Run("address match is case-insensitive", func(t *testing.T) {
		quote, err := svc.Quote(100, domain.JobSizeMedium, ptr.Ptr("unit 4, SANDTON city"))

		require.NoError(t, err)
		assert.Equal(t, 1.3, quote.LocationMultiplier)
	})

	t.Run("zero base price is allowed", func(t *testing.T) {
		quote, err := svc.Quote(0, domain.JobSizeMedium, nil)

		require.NoError(t, err)
		assert.Zero(t, quote.CalculatedPrice)
	})

	t.Run("negative base price is rejected", func(t *testing.T) {
		_, err := svc.Quote(-1, domain.JobSizeMedium, nil)

		assert.ErrorIs(t, err, ErrInvalidBasePrice)
	})
}
