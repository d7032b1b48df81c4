package find_providers

import "github.com/m04kA/SMC-DispatchService/pkg/geo"

// Request модель запроса на подбор исполнителей
type Request struct {
	JobLocation   geo.Coordinates // Координаты места выполнения
	JobAddress    *string         // Адрес (для ценового множителя района)
	Skills        []string        // Требуемые навыки (хотя бы один)
	BasePrice     float64         // Базовая цена услуги для оценки стоимости
	JobSize       string          // Размер работы (по умолчанию medium)
	MaxDistanceKm float64         // Радиус поиска заказчика (0 - только общий лимит платформы)
	Limit         int             // Максимум кандидатов в ответе (0 - без ограничения)
}

// Candidate подобранный исполнитель
type Candidate struct {
	ProviderID      int64    // ID исполнителя
	Name            string   // Имя исполнителя
	Rating          float64  // Средний рейтинг
	ExperienceYears int      // Стаж в годах
	DistanceKm      float64  // Расстояние до места работы
	Score           float64  // Композитный рейтинг для ранжирования
	EstimatedPrice  float64  // Оценка стоимости работы по ценовому движку
	Skills          []string // Навыки исполнителя
}

// Response модель ответа с ранжированным списком кандидатов
type Response struct {
	Candidates         []*Candidate // По убыванию Score
	EstimatedPrice     float64      // Оценка стоимости для данного места и размера работы
	LocationMultiplier float64      // Ценовой множитель района работы
}
