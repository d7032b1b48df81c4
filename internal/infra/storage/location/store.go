package location

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// Store хранилище живых координат сторон бронирования в Redis.
//
// Пинги приходят часто и имеют ценность только пока свежие, поэтому живут в
// Redis с TTL; авторитетное состояние proximity gate хранится на строке
// бронирования в PostgreSQL.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStore создает хранилище координат
func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Ping последняя известная позиция одной из сторон
type Ping struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ObservedAt time.Time `json:"observed_at"`
}

func key(bookingID int64, role domain.PartyRole) string {
	return fmt.Sprintf("booking:%d:location:%s", bookingID, role)
}

// Save сохраняет координаты стороны с TTL
func (s *Store) Save(ctx context.Context, bookingID int64, role domain.PartyRole, coords geo.Coordinates, observedAt time.Time) error {
	payload, err := json.Marshal(Ping{
		Latitude:   coords.Latitude,
		Longitude:  coords.Longitude,
		ObservedAt: observedAt,
	})
	if err != nil {
		return fmt.Errorf("%w: Save - marshal ping: %v", ErrEncode, err)
	}

	if err := s.client.Set(ctx, key(bookingID, role), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - set %s: %v", ErrStore, key(bookingID, role), err)
	}

	return nil
}

// Get возвращает последнюю известную позицию стороны
// Второй результат false, если позиция неизвестна или устарела (TTL истек).
func (s *Store) Get(ctx context.Context, bookingID int64, role domain.PartyRole) (*Ping, bool, error) {
	raw, err := s.client.Get(ctx, key(bookingID, role)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get - get %s: %v", ErrStore, key(bookingID, role), err)
	}

	var ping Ping
	if err := json.Unmarshal(raw, &ping); err != nil {
		return nil, false, fmt.Errorf("%w: Get - unmarshal ping: %v", ErrEncode, err)
	}

	return &ping, true, nil
}
