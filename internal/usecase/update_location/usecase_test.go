package update_location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DispatchService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DispatchService/internal/infra/storage/location"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

var (
	testNow  = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	jobSite  = geo.Coordinates{Latitude: -26.2041, Longitude: 28.0473}
	nearSite = geo.Coordinates{Latitude: -26.20428, Longitude: 28.0473} // около 20 м
	farSite  = geo.Coordinates{Latitude: -26.2221, Longitude: 28.0473}  // около 2 км
)

type fakeBookingRepo struct {
	booking     *domain.Booking
	trackingErr error
	savedCount  int
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if r.booking == nil || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return r.booking, nil
}

func (r *fakeBookingRepo) SaveTracking(_ context.Context, _ *domain.Booking) error {
	if r.trackingErr != nil {
		return r.trackingErr
	}
	r.savedCount++
	return nil
}

type fakeLocationStore struct {
	pings   map[string]*location.Ping
	saveErr error
	saved   []string
}

func storeKey(bookingID int64, role domain.PartyRole) string {
	return string(role)
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{pings: make(map[string]*location.Ping)}
}

func (s *fakeLocationStore) Save(_ context.Context, bookingID int64, role domain.PartyRole, coords geo.Coordinates, observedAt time.Time) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.pings[storeKey(bookingID, role)] = &location.Ping{
		Latitude:   coords.Latitude,
		Longitude:  coords.Longitude,
		ObservedAt: observedAt,
	}
	s.saved = append(s.saved, string(role))
	return nil
}

func (s *fakeLocationStore) Get(_ context.Context, bookingID int64, role domain.PartyRole) (*location.Ping, bool, error) {
	ping, ok := s.pings[storeKey(bookingID, role)]
	return ping, ok, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		CustomerID:    10,
		ProviderID:    20,
		Status:        domain.StatusConfirmed,
		RequestStatus: domain.RequestAccepted,
		PaymentStatus: domain.PaymentPaidToEscrow,
		JobLocation:   jobSite,
	}
}

func testPolicy() domain.ProximityPolicy {
	return domain.ProximityPolicy{ThresholdMeters: 100, MinDwell: 5 * time.Minute}
}

func newTestUseCase(repo *fakeBookingRepo, store *fakeLocationStore, clock *fixedTime) *UseCase {
	return NewUseCase(repo, store, testPolicy(), fakeTxManager{}, nopLogger{}).WithTimeProvider(clock)
}

func TestExecute_FirstPing(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	store := newFakeLocationStore()
	uc := newTestUseCase(repo, store, &fixedTime{t: testNow})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10, Coords: jobSite})

	require.NoError(t, err)
	assert.Equal(t, "customer", resp.Role)
	assert.False(t, resp.ProximityDetected)
	assert.Nil(t, resp.DistanceMeters)
	assert.False(t, resp.CanStartJob)
	assert.Equal(t, []string{"customer"}, store.saved)
	assert.Equal(t, 1, repo.savedCount)
}

func TestExecute_GateOpensAfterContinuousDwell(t *testing.T) {
	ctx := context.Background()
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	store := newFakeLocationStore()
	clock := &fixedTime{t: testNow}
	uc := newTestUseCase(repo, store, clock)

	_, err := uc.Execute(ctx, &Request{BookingID: 1, UserID: 10, Coords: jobSite})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{BookingID: 1, UserID: 20, Coords: nearSite})
	require.NoError(t, err)
	assert.True(t, resp.ProximityDetected)
	require.NotNil(t, resp.DistanceMeters)
	assert.Less(t, *resp.DistanceMeters, 100.0)
	assert.False(t, resp.CanStartJob)

	// Стороны остаются рядом дольше минимального времени
	clock.t = testNow.Add(6 * time.Minute)
	resp, err = uc.Execute(ctx, &Request{BookingID: 1, UserID: 20, Coords: nearSite})

	require.NoError(t, err)
	assert.True(t, resp.CanStartJob)
}

func TestExecute_SeparationResetsDwell(t *testing.T) {
	ctx := context.Background()
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	store := newFakeLocationStore()
	clock := &fixedTime{t: testNow}
	uc := newTestUseCase(repo, store, clock)

	_, err := uc.Execute(ctx, &Request{BookingID: 1, UserID: 10, Coords: jobSite})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, &Request{BookingID: 1, UserID: 20, Coords: nearSite})
	require.NoError(t, err)

	// Исполнитель отъехал: таймер сбрасывается
	clock.t = testNow.Add(3 * time.Minute)
	resp, err := uc.Execute(ctx, &Request{BookingID: 1, UserID: 20, Coords: farSite})
	require.NoError(t, err)
	assert.False(t, resp.ProximityDetected)

	// Вернулся: отсчет начинается заново, суммарное время не засчитывается
	clock.t = testNow.Add(6 * time.Minute)
	resp, err = uc.Execute(ctx, &Request{BookingID: 1, UserID: 20, Coords: nearSite})
	require.NoError(t, err)
	assert.True(t, resp.ProximityDetected)
	assert.False(t, resp.CanStartJob)

	clock.t = testNow.Add(12 * time.Minute)
	resp, err = uc.Execute(ctx, &Request{BookingID: 1, UserID: 20, Coords: nearSite})
	require.NoError(t, err)
	assert.True(t, resp.CanStartJob)
}

func TestExecute_ExpiredCounterpartPing(t *testing.T) {
	ctx := context.Background()
	b := confirmedBooking()
	// На строке остались старые координаты исполнителя и начатый отсчет
	b.ProviderLocation = &geo.Coordinates{Latitude: nearSite.Latitude, Longitude: nearSite.Longitude}
	firstSeen := testNow.Add(-30 * time.Minute)
	b.FirstProximityAt = &firstSeen
	repo := &fakeBookingRepo{booking: b}
	store := newFakeLocationStore() // живого пинга исполнителя нет
	uc := newTestUseCase(repo, store, &fixedTime{t: testNow})

	resp, err := uc.Execute(ctx, &Request{BookingID: 1, UserID: 10, Coords: jobSite})

	require.NoError(t, err)
	assert.False(t, resp.ProximityDetected)
	assert.Nil(t, resp.DistanceMeters)
	assert.False(t, resp.CanStartJob)

	// Разрыв наблюдения сбрасывает отсчет: старый FirstProximityAt не может
	// мгновенно открыть gate при следующем совпадении позиций
	assert.Nil(t, b.FirstProximityAt)
}

func TestExecute_Guards(t *testing.T) {
	ctx := context.Background()

	t.Run("pending booking is not trackable", func(t *testing.T) {
		b := confirmedBooking()
		b.Status = domain.StatusPending
		b.RequestStatus = domain.RequestPending
		uc := newTestUseCase(&fakeBookingRepo{booking: b}, newFakeLocationStore(), &fixedTime{t: testNow})

		_, err := uc.Execute(ctx, &Request{BookingID: 1, UserID: 10, Coords: jobSite})

		assert.ErrorIs(t, err, ErrNotTrackable)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{booking: confirmedBooking()}, newFakeLocationStore(), &fixedTime{t: testNow})

		_, err := uc.Execute(ctx, &Request{BookingID: 1, UserID: 99, Coords: jobSite})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid coordinates are rejected", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{booking: confirmedBooking()}, newFakeLocationStore(), &fixedTime{t: testNow})

		_, err := uc.Execute(ctx, &Request{BookingID: 1, UserID: 10, Coords: geo.Coordinates{Latitude: 91}})

		assert.ErrorIs(t, err, ErrInvalidLocation)
	})

	t.Run("unknown booking", func(t *testing.T) {
		uc := newTestUseCase(&fakeBookingRepo{}, newFakeLocationStore(), &fixedTime{t: testNow})

		_, err := uc.Execute(ctx, &Request{BookingID: 404, UserID: 10, Coords: jobSite})

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestExecute_PingLossIsNotFatal(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	store := newFakeLocationStore()
	store.saveErr = errors.New("redis: connection refused")
	uc := newTestUseCase(repo, store, &fixedTime{t: testNow})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10, Coords: jobSite})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.savedCount)
	assert.False(t, resp.CanStartJob)
}
