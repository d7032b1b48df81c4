package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/m04kA/SMC-DispatchService/internal/domain"
)

// Config таблицы множителей ценообразования
// Передается через конструктор, чтобы тесты могли подставлять свои таблицы.
type Config struct {
	JobSizeMultipliers  map[string]float64 // small/medium/large -> множитель
	LocationMultipliers map[string]float64 // ключевое слово адреса -> множитель
	DefaultMultiplier   float64            // для адресов вне таблицы
}

// DefaultConfig таблицы по умолчанию; перекрываются config.toml
func DefaultConfig() Config {
	return Config{
		JobSizeMultipliers: map[string]float64{
			string(domain.JobSizeSmall):  0.8,
			string(domain.JobSizeMedium): 1.0,
			string(domain.JobSizeLarge):  1.4,
		},
		LocationMultipliers: map[string]float64{},
		DefaultMultiplier:   1.0,
	}
}

// Quote снапшот расчета цены
// Записывается на бронирование при создании и больше не пересчитывается:
// последующие изменения таблиц не влияют на уже созданные бронирования.
type Quote struct {
	BasePrice          float64
	JobSize            domain.JobSize
	JobSizeMultiplier  float64
	LocationMultiplier float64
	CalculatedPrice    float64
}

// Service движок ценообразования
type Service struct {
	cfg Config
}

// NewService создает движок с переданными таблицами
// Пустые таблицы заполняются значениями по умолчанию.
func NewService(cfg Config) *Service {
	defaults := DefaultConfig()
	if len(cfg.JobSizeMultipliers) == 0 {
		cfg.JobSizeMultipliers = defaults.JobSizeMultipliers
	}
	if cfg.LocationMultipliers == nil {
		cfg.LocationMultipliers = defaults.LocationMultipliers
	}
	if cfg.DefaultMultiplier <= 0 {
		cfg.DefaultMultiplier = defaults.DefaultMultiplier
	}
	return &Service{cfg: cfg}
}

// Quote вычисляет цену: basePrice x jobSizeMultiplier x locationMultiplier
//
// Неизвестный jobSize трактуется как medium, чтобы не ронять создание
// бронирования из-за мусорного значения. Отрицательная или не-конечная
// базовая цена - ошибка данных каталога и отклоняется.
func (s *Service) Quote(basePrice float64, jobSize domain.JobSize, address *string) (*Quote, error) {
	if basePrice < 0 || math.IsNaN(basePrice) || math.IsInf(basePrice, 0) {
		return nil, fmt.Errorf("%w: basePrice=%f", ErrInvalidBasePrice, basePrice)
	}

	size := jobSize
	sizeMultiplier, ok := s.cfg.JobSizeMultipliers[string(size)]
	if !ok {
		size = domain.JobSizeMedium
		sizeMultiplier = s.cfg.JobSizeMultipliers[string(domain.JobSizeMedium)]
	}

	locationMultiplier := s.LocationMultiplier(address)

	return &Quote{
		BasePrice:          basePrice,
		JobSize:            size,
		JobSizeMultiplier:  sizeMultiplier,
		LocationMultiplier: locationMultiplier,
		CalculatedPrice:    basePrice * sizeMultiplier * locationMultiplier,
	}, nil
}

// LocationMultiplier подбирает множитель по подстроке адреса
// Адреса вне таблицы (и отсутствующий адрес) получают множитель по умолчанию.
func (s *Service) LocationMultiplier(address *string) float64 {
	if address == nil {
		return s.cfg.DefaultMultiplier
	}

	needle := strings.ToLower(*address)
	for keyword, multiplier := range s.cfg.LocationMultipliers {
		if strings.Contains(needle, strings.ToLower(keyword)) {
			return multiplier
		}
	}

	return s.cfg.DefaultMultiplier
}
