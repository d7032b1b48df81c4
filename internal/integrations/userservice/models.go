package userservice

// Profile профиль пользователя из UserService
type Profile struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   *string  `json:"address,omitempty"`
}

// HasDefaultLocation возвращает true, если в профиле сохранены координаты
func (p *Profile) HasDefaultLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// UpdateLocationRequest запрос на обновление координат профиля
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address,omitempty"`
}
