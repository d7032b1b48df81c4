package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// Точки в Йоханнесбурге: base и near в ~20 м друг от друга, far в ~2 км
var (
	basePoint = geo.Coordinates{Latitude: -26.2041, Longitude: 28.0473}
	nearPoint = geo.Coordinates{Latitude: -26.20428, Longitude: 28.0473}
	farPoint  = geo.Coordinates{Latitude: -26.2221, Longitude: 28.0473}
)

func trackableBooking(t *testing.T) *Booking {
	t.Helper()
	b := newPendingBooking()
	require.NoError(t, b.Accept(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)))
	return b
}

func TestUpdateLiveLocation_GateRequiresContinuousDwell(t *testing.T) {
	policy := ProximityPolicy{ThresholdMeters: 100, MinDwell: 5 * time.Minute}
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	b := trackableBooking(t)

	// Первая сторона одна: измерять нечего
	proximity, err := b.UpdateLiveLocation(RoleCustomer, basePoint, policy, start)
	require.NoError(t, err)
	assert.False(t, proximity)
	assert.Nil(t, b.FirstProximityAt)

	// Обе стороны рядом: таймер пошел
	proximity, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start)
	require.NoError(t, err)
	assert.True(t, proximity)
	require.NotNil(t, b.FirstProximityAt)
	assert.False(t, b.CanStartJob)

	// 2 минуты рядом - еще рано
	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, b.CanStartJob)

	// 6 минут непрерывно рядом - gate открыт
	_, err = b.UpdateLiveLocation(RoleCustomer, basePoint, policy, start.Add(6*time.Minute))
	require.NoError(t, err)
	assert.True(t, b.CanStartJob)
}

func TestUpdateLiveLocation_SeparationResetsDwellTimer(t *testing.T) {
	policy := ProximityPolicy{ThresholdMeters: 100, MinDwell: 5 * time.Minute}
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	b := trackableBooking(t)

	_, err := b.UpdateLiveLocation(RoleCustomer, basePoint, policy, start)
	require.NoError(t, err)
	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start)
	require.NoError(t, err)
	require.NotNil(t, b.FirstProximityAt)

	// Исполнитель отъехал через 3 минуты: таймер сбрасывается
	proximity, err := b.UpdateLiveLocation(RoleProvider, farPoint, policy, start.Add(3*time.Minute))
	require.NoError(t, err)
	assert.False(t, proximity)
	assert.Nil(t, b.FirstProximityAt)

	// Вернулся через 4 минуты: отсчет начинается заново, 3+N минут не суммируются
	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start.Add(4*time.Minute))
	require.NoError(t, err)
	assert.False(t, b.CanStartJob)

	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start.Add(8*time.Minute))
	require.NoError(t, err)
	assert.False(t, b.CanStartJob)

	// 5 минут после возвращения
	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start.Add(9*time.Minute))
	require.NoError(t, err)
	assert.True(t, b.CanStartJob)
}

func TestUpdateLiveLocation_UnknownCounterpartResetsDwellTimer(t *testing.T) {
	policy := ProximityPolicy{ThresholdMeters: 100, MinDwell: 5 * time.Minute}
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	b := trackableBooking(t)
	_, err := b.UpdateLiveLocation(RoleCustomer, basePoint, policy, start)
	require.NoError(t, err)
	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start)
	require.NoError(t, err)
	require.NotNil(t, b.FirstProximityAt)

	// Пинг исполнителя протух: позиция неизвестна, непрерывность не
	// наблюдалась, таймер сбрасывается
	b.ProviderLocation = nil
	proximity, err := b.UpdateLiveLocation(RoleCustomer, basePoint, policy, start.Add(10*time.Minute))
	require.NoError(t, err)
	assert.False(t, proximity)
	assert.Nil(t, b.FirstProximityAt)

	// Исполнитель снова на связи: одного пинга рядом недостаточно, разрыв
	// не засчитывается в выдержку
	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start.Add(11*time.Minute))
	require.NoError(t, err)
	assert.False(t, b.CanStartJob)

	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start.Add(16*time.Minute))
	require.NoError(t, err)
	assert.True(t, b.CanStartJob)
}

func TestUpdateLiveLocation_GateLatchesOneWay(t *testing.T) {
	policy := ProximityPolicy{ThresholdMeters: 100, MinDwell: 5 * time.Minute}
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	b := trackableBooking(t)
	_, err := b.UpdateLiveLocation(RoleCustomer, basePoint, policy, start)
	require.NoError(t, err)
	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start)
	require.NoError(t, err)
	_, err = b.UpdateLiveLocation(RoleProvider, nearPoint, policy, start.Add(5*time.Minute))
	require.NoError(t, err)
	require.True(t, b.CanStartJob)

	// Разделение после открытия gate не отзывает разрешение
	_, err = b.UpdateLiveLocation(RoleProvider, farPoint, policy, start.Add(6*time.Minute))
	require.NoError(t, err)
	assert.True(t, b.CanStartJob)
	assert.Nil(t, b.FirstProximityAt)
}

func TestUpdateLiveLocation_OnlyTrackableStates(t *testing.T) {
	policy := ProximityPolicy{ThresholdMeters: 100, MinDwell: 5 * time.Minute}
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("pending booking is not trackable", func(t *testing.T) {
		b := newPendingBooking()

		_, err := b.UpdateLiveLocation(RoleCustomer, basePoint, policy, now)
		assert.ErrorIs(t, err, ErrLocationNotTrackable)
	})

	t.Run("in-progress booking is trackable", func(t *testing.T) {
		b := trackableBooking(t)
		b.CanStartJob = true
		require.NoError(t, b.Start(now))

		_, err := b.UpdateLiveLocation(RoleCustomer, basePoint, policy, now)
		assert.NoError(t, err)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		b := trackableBooking(t)

		_, err := b.UpdateLiveLocation(PartyRole("stranger"), basePoint, policy, now)
		assert.ErrorIs(t, err, ErrLocationNotTrackable)
	})
}
