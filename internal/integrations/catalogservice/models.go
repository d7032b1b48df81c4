package catalogservice

// Service услуга из каталога. Называет исполнителя, базовую цену и
// базовую длительность; approved/active выставляются администратором.
type Service struct {
	ID                  int64   `json:"id"`
	ProviderID          int64   `json:"provider_id"`
	Name                string  `json:"name"`
	BasePrice           float64 `json:"base_price"`
	BaseDurationMinutes int     `json:"base_duration_minutes"`
	Approved            bool    `json:"approved"`
	Active              bool    `json:"active"`
}

// IsBookable возвращает true, если услугу можно бронировать
func (s *Service) IsBookable() bool {
	return s.Approved && s.Active
}
