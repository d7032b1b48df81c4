package location

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

func TestStore_Save(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, 2*time.Minute)

	observedAt := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	coords := geo.Coordinates{Latitude: -26.2041, Longitude: 28.0473}

	payload, err := json.Marshal(Ping{
		Latitude:   coords.Latitude,
		Longitude:  coords.Longitude,
		ObservedAt: observedAt,
	})
	require.NoError(t, err)

	mock.ExpectSet("booking:7:location:customer", payload, 2*time.Minute).SetVal("OK")

	err = store.Save(context.Background(), 7, domain.RoleCustomer, coords, observedAt)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get(t *testing.T) {
	observedAt := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("fresh ping", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewStore(client, 2*time.Minute)

		payload, err := json.Marshal(Ping{Latitude: -26.2041, Longitude: 28.0473, ObservedAt: observedAt})
		require.NoError(t, err)
		mock.ExpectGet("booking:7:location:provider").SetVal(string(payload))

		ping, found, err := store.Get(context.Background(), 7, domain.RoleProvider)

		require.NoError(t, err)
		require.True(t, found)
		assert.InDelta(t, -26.2041, ping.Latitude, 1e-9)
		assert.InDelta(t, 28.0473, ping.Longitude, 1e-9)
		assert.True(t, ping.ObservedAt.Equal(observedAt))
	})

	t.Run("expired or never seen", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewStore(client, 2*time.Minute)

		mock.ExpectGet("booking:7:location:provider").RedisNil()

		ping, found, err := store.Get(context.Background(), 7, domain.RoleProvider)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, ping)
	})

	t.Run("corrupted payload", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewStore(client, 2*time.Minute)

		mock.ExpectGet("booking:7:location:customer").SetVal("{not json")

		_, _, err := store.Get(context.Background(), 7, domain.RoleCustomer)

		assert.ErrorIs(t, err, ErrEncode)
	})
}
