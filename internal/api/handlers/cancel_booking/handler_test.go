package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DispatchService/internal/api/middleware"
	"github.com/m04kA/SMC-DispatchService/internal/service/bookings"
	"github.com/m04kA/SMC-DispatchService/internal/service/bookings/models"
)

type fakeService struct {
	gotRequest *models.CancelBookingRequest
	response   *models.BookingResponse
	err        error
}

func (s *fakeService) Cancel(_ context.Context, _ int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.gotRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestRouter(service *fakeService) *mux.Router {
	h := NewHandler(service, nopLogger{})
	r := mux.NewRouter()
	r.Handle("/bookings/{bookingId}/cancel", middleware.Auth(http.HandlerFunc(h.Handle))).Methods(http.MethodPatch)
	return r
}

func cancelRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/bookings/1/cancel", strings.NewReader(body))
	req.Header.Set("X-User-ID", "10")
	return req
}

func TestHandle_BodyCannotGrantAdminOverride(t *testing.T) {
	t.Run("override flag in the body is rejected as unknown field", func(t *testing.T) {
		service := &fakeService{}
		rec := httptest.NewRecorder()

		newTestRouter(service).ServeHTTP(rec, cancelRequest(`{"reason":"taking too long","adminOverride":true}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, service.gotRequest)
	})

	t.Run("without the gateway header the override stays off", func(t *testing.T) {
		service := &fakeService{err: bookings.ErrCannotCancel}
		rec := httptest.NewRecorder()

		newTestRouter(service).ServeHTTP(rec, cancelRequest(`{"reason":"taking too long"}`))

		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, service.gotRequest)
		assert.False(t, service.gotRequest.AdminOverride)
		assert.Equal(t, int64(10), service.gotRequest.CallerID)
	})
}

func TestHandle_GatewayHeaderGrantsAdminOverride(t *testing.T) {
	service := &fakeService{response: &models.BookingResponse{ID: 1, Status: "cancelled"}}
	rec := httptest.NewRecorder()

	req := cancelRequest(`{"reason":"dispute resolved by support"}`)
	req.Header.Set("X-Admin-Override", "true")
	newTestRouter(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, service.gotRequest)
	assert.True(t, service.gotRequest.AdminOverride)
}
