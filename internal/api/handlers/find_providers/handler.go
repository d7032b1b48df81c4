package find_providers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-DispatchService/internal/api/handlers"
	usecase "github.com/m04kA/SMC-DispatchService/internal/usecase/find_providers"
)

const (
	msgMissingSkills    = "отсутствует параметр skills"
	msgInvalidLatitude  = "некорректное значение latitude"
	msgInvalidLongitude = "некорректное значение longitude"
	msgInvalidBasePrice = "некорректное значение basePrice"
	msgInvalidDistance  = "некорректное значение maxDistanceKm"
	msgInvalidLimit     = "некорректное значение limit"
	msgInvalidLocation  = "некорректные координаты места работы"
	msgInvalidInput     = "некорректные входные данные"
)

type Handler struct {
	useCase FindProvidersUseCase
	logger  Logger
}

func NewHandler(useCase FindProvidersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/available
// Query params: skills (required, через запятую или повтором параметра),
// latitude и longitude (required), basePrice (required), address, jobSize,
// maxDistanceKm, limit (опционально).
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Извлекаем skills: параметр повторяемый, каждое значение может
	// содержать несколько навыков через запятую
	var skills []string
	for _, raw := range query["skills"] {
		for _, skill := range strings.Split(raw, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				skills = append(skills, skill)
			}
		}
	}
	if len(skills) == 0 {
		h.logger.Warn("GET /providers/available - Missing skills")
		handlers.RespondBadRequest(w, msgMissingSkills)
		return
	}

	// Извлекаем координаты места работы
	latitude, err := strconv.ParseFloat(query.Get("latitude"), 64)
	if err != nil {
		h.logger.Warn("GET /providers/available - Invalid latitude: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLatitude)
		return
	}

	longitude, err := strconv.ParseFloat(query.Get("longitude"), 64)
	if err != nil {
		h.logger.Warn("GET /providers/available - Invalid longitude: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLongitude)
		return
	}

	// Извлекаем basePrice для оценки стоимости
	basePrice, err := strconv.ParseFloat(query.Get("basePrice"), 64)
	if err != nil {
		h.logger.Warn("GET /providers/available - Invalid base price: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBasePrice)
		return
	}

	// Опциональные параметры
	var address *string
	if a := query.Get("address"); a != "" {
		address = &a
	}

	var maxDistanceKm float64
	if raw := query.Get("maxDistanceKm"); raw != "" {
		maxDistanceKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			h.logger.Warn("GET /providers/available - Invalid max distance: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDistance)
			return
		}
	}

	var limit int
	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /providers/available - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	req := &FindProvidersQuery{
		Latitude:      latitude,
		Longitude:     longitude,
		Address:       address,
		Skills:        skills,
		BasePrice:     basePrice,
		JobSize:       query.Get("jobSize"),
		MaxDistanceKm: maxDistanceKm,
		Limit:         limit,
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidLocation):
			h.logger.Warn("GET /providers/available - Invalid job location")
			handlers.RespondBadRequest(w, msgInvalidLocation)

		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("GET /providers/available - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /providers/available - Failed to find providers: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/available - Found %d candidates", len(resp.Candidates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
