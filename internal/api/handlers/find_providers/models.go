package find_providers

import (
	usecase "github.com/m04kA/SMC-DispatchService/internal/usecase/find_providers"
	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// FindProvidersQuery разобранные query-параметры запроса подбора
type FindProvidersQuery struct {
	Latitude      float64
	Longitude     float64
	Address       *string
	Skills        []string
	BasePrice     float64
	JobSize       string
	MaxDistanceKm float64
	Limit         int
}

// ToUseCaseRequest конвертирует query-параметры в модель usecase
func (q *FindProvidersQuery) ToUseCaseRequest() *usecase.Request {
	return &usecase.Request{
		JobLocation: geo.Coordinates{
			Latitude:  q.Latitude,
			Longitude: q.Longitude,
		},
		JobAddress:    q.Address,
		Skills:        q.Skills,
		BasePrice:     q.BasePrice,
		JobSize:       q.JobSize,
		MaxDistanceKm: q.MaxDistanceKm,
		Limit:         q.Limit,
	}
}

// CandidateResponse подобранный исполнитель в HTTP-ответе
type CandidateResponse struct {
	ProviderID      int64    `json:"providerId"`
	Name            string   `json:"name"`
	Rating          float64  `json:"rating"`
	ExperienceYears int      `json:"experienceYears"`
	DistanceKm      float64  `json:"distanceKm"`
	Score           float64  `json:"score"`
	EstimatedPrice  float64  `json:"estimatedPrice"`
	Skills          []string `json:"skills"`
}

// FindProvidersResponse HTTP response model
type FindProvidersResponse struct {
	Candidates         []*CandidateResponse `json:"candidates"`
	Total              int                  `json:"total"`
	EstimatedPrice     float64              `json:"estimatedPrice"`
	LocationMultiplier float64              `json:"locationMultiplier"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *usecase.Response) *FindProvidersResponse {
	candidates := make([]*CandidateResponse, len(resp.Candidates))
	for i, c := range resp.Candidates {
		candidates[i] = &CandidateResponse{
			ProviderID:      c.ProviderID,
			Name:            c.Name,
			Rating:          c.Rating,
			ExperienceYears: c.ExperienceYears,
			DistanceKm:      c.DistanceKm,
			Score:           c.Score,
			EstimatedPrice:  c.EstimatedPrice,
			Skills:          c.Skills,
		}
	}

	return &FindProvidersResponse{
		Candidates:         candidates,
		Total:              len(candidates),
		EstimatedPrice:     resp.EstimatedPrice,
		LocationMultiplier: resp.LocationMultiplier,
	}
}
