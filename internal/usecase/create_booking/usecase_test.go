package create_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/notify"
	"github.com/m04kA/SMC-DispatchService/internal/integrations/userservice"
	"github.com/m04kA/SMC-DispatchService/internal/service/pricing"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
	"github.com/m04kA/SMC-DispatchService/pkg/ptr"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	created *domain.Booking
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = 1
	booking.CreatedAt = testNow
	booking.UpdatedAt = testNow
	r.created = booking
	return booking, nil
}

type fakeCatalogClient struct {
	service *catalogservice.Service
	err     error
}

func (c *fakeCatalogClient) GetService(_ context.Context, _ int64) (*catalogservice.Service, error) {
	return c.service, c.err
}

type fakeUserClient struct {
	profile *userservice.Profile
	err     error

	updatedCoords  *geo.Coordinates
	updatedAddress *string
}

func (c *fakeUserClient) GetProfile(_ context.Context, _ int64) (*userservice.Profile, error) {
	return c.profile, c.err
}

func (c *fakeUserClient) UpdateDefaultLocation(_ context.Context, _ int64, coords geo.Coordinates, address *string) error {
	c.updatedCoords = &coords
	c.updatedAddress = address
	return nil
}

type fakeNotifier struct {
	keys []string
}

func (n *fakeNotifier) Publish(_ context.Context, key string, _ notify.BookingEvent) error {
	n.keys = append(n.keys, key)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func bookableService() *catalogservice.Service {
	return &catalogservice.Service{
		ID:                  30,
		ProviderID:          20,
		Name:                "Deep cleaning",
		BasePrice:           500,
		BaseDurationMinutes: 90,
		Approved:            true,
		Active:              true,
	}
}

func profileWithLocation() *userservice.Profile {
	return &userservice.Profile{
		ID:        10,
		Name:      "Lindiwe N.",
		Latitude:  ptr.Ptr(-26.2041),
		Longitude: ptr.Ptr(28.0473),
	}
}

func testPricing() *pricing.Service {
	return pricing.NewService(pricing.Config{
		JobSizeMultipliers:  map[string]float64{"small": 0.8, "medium": 1.0, "large": 1.4},
		LocationMultipliers: map[string]float64{"Sandton": 1.3},
		DefaultMultiplier:   1.0,
	})
}

func newTestUseCase(repo *fakeBookingRepo, catalog *fakeCatalogClient, users *fakeUserClient, notifier *fakeNotifier) *UseCase {
	uc := NewUseCase(repo, catalog, users, testPricing(), notifier, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{t: testNow}
	return uc
}

func createRequest() *Request {
	return &Request{
		CustomerID:  10,
		ServiceID:   30,
		ScheduledAt: testNow.Add(24 * time.Hour),
		JobSize:     "large",
		JobLocation: geo.Coordinates{Latitude: -26.1076, Longitude: 28.0567},
		JobAddress:  ptr.Ptr("12 Rivonia Rd, Sandton"),
		Notes:       ptr.Ptr("gate code 4321"),
	}
}

func TestExecute_HappyPath(t *testing.T) {
	repo := &fakeBookingRepo{}
	users := &fakeUserClient{profile: profileWithLocation()}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, &fakeCatalogClient{service: bookableService()}, users, notifier)

	resp, err := uc.Execute(context.Background(), createRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(20), resp.ProviderID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "pending", resp.RequestStatus)
	assert.Equal(t, "unpaid", resp.PaymentStatus)

	// Снапшот цены: 500 x 1.4 (large) x 1.3 (Sandton)
	assert.Equal(t, 500.0, resp.BasePrice)
	assert.Equal(t, 1.4, resp.JobSizeMultiplier)
	assert.Equal(t, 1.3, resp.LocationMultiplier)
	assert.InDelta(t, 910, resp.CalculatedPrice, 1e-9)

	// Оценка длительности масштабируется размером работы: 90 x 1.4
	assert.Equal(t, 126, resp.EstimatedDurationMinutes)

	assert.True(t, strings.HasPrefix(resp.ReferenceCode, "BK-"))
	assert.Len(t, resp.ReferenceCode, 11)

	// Профиль уже содержит координаты, write-back не выполняется
	assert.Nil(t, users.updatedCoords)
	assert.Equal(t, []string{notify.EventBookingCreated}, notifier.keys)
}

func TestExecute_LocationWriteBack(t *testing.T) {
	users := &fakeUserClient{profile: &userservice.Profile{ID: 10, Name: "Lindiwe N."}}
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeCatalogClient{service: bookableService()}, users, &fakeNotifier{})

	req := createRequest()
	_, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, users.updatedCoords)
	assert.InDelta(t, req.JobLocation.Latitude, users.updatedCoords.Latitude, 1e-9)
	require.NotNil(t, users.updatedAddress)
	assert.Equal(t, *req.JobAddress, *users.updatedAddress)
}

func TestExecute_ServiceChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown service", func(t *testing.T) {
		catalog := &fakeCatalogClient{err: catalogservice.ErrServiceNotFound}
		uc := newTestUseCase(&fakeBookingRepo{}, catalog, &fakeUserClient{profile: profileWithLocation()}, &fakeNotifier{})

		_, err := uc.Execute(ctx, createRequest())

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("service not yet approved", func(t *testing.T) {
		svc := bookableService()
		svc.Approved = false
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCatalogClient{service: svc}, &fakeUserClient{profile: profileWithLocation()}, &fakeNotifier{})

		_, err := uc.Execute(ctx, createRequest())

		assert.ErrorIs(t, err, ErrServiceNotBookable)
	})

	t.Run("unknown customer", func(t *testing.T) {
		users := &fakeUserClient{err: userservice.ErrProfileNotFound}
		uc := newTestUseCase(&fakeBookingRepo{}, &fakeCatalogClient{service: bookableService()}, users, &fakeNotifier{})

		_, err := uc.Execute(ctx, createRequest())

		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestExecute_Validation(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeCatalogClient{service: bookableService()}, &fakeUserClient{profile: profileWithLocation()}, &fakeNotifier{})

	t.Run("scheduled time in the past", func(t *testing.T) {
		req := createRequest()
		req.ScheduledAt = testNow.Add(-time.Hour)

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("zero job coordinates", func(t *testing.T) {
		req := createRequest()
		req.JobLocation = geo.Coordinates{}

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidLocation)
	})

	t.Run("non-positive service id", func(t *testing.T) {
		req := createRequest()
		req.ServiceID = 0

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("oversized notes", func(t *testing.T) {
		req := createRequest()
		req.Notes = ptr.Ptr(strings.Repeat("x", domain.MaxNotesLength+1))

		_, err := uc.Execute(ctx, req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_UnknownJobSizeFallsBackToMedium(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, &fakeCatalogClient{service: bookableService()}, &fakeUserClient{profile: profileWithLocation()}, &fakeNotifier{})

	req := createRequest()
	req.JobSize = "gigantic"

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "medium", resp.JobSize)
	assert.Equal(t, 1.0, resp.JobSizeMultiplier)
	assert.Equal(t, 90, resp.EstimatedDurationMinutes)
}
