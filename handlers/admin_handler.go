package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-registration/services"
)

type fixtureGenerator interface {
	CheckCanGenerate(ctx context.Context) error
	GenerateFixtures(ctx context.Context) (*services.GenerationResult, error)
	ToggleRegistration(ctx context.Context) (bool, error)
}

type gateReader interface {
	IsOpen(ctx context.Context) (bool, error)
}

// AdminHandler обслуживает действия администратора турнира. Все маршруты требуют сессии.
type AdminHandler struct {
	brackets fixtureGenerator
	gate     gateReader
	logger   *slog.Logger
}

func NewAdminHandler(brackets fixtureGenerator, gate gateReader, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{brackets: brackets, gate: gate, logger: logger}
}

// GetRegistrationStatus godoc
// @Summary Состояние регистрации
// @Tags admin
// @Description Открыта ли регистрация и можно ли сейчас сгенерировать матчи.
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /admin/registration [get]
func (h *AdminHandler) GetRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	open, err := h.gate.IsOpen(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	canGenerate := true
	if err := h.brackets.CheckCanGenerate(r.Context()); err != nil {
		if !errors.Is(err, services.ErrRegistrationNotOpen) && !errors.Is(err, services.ErrNotEnoughEntrants) {
			serverErrorResponse(w, r, err)
			return
		}
		canGenerate = false
	}

	response := jsonResponse{"registration_open": open, "can_generate": canGenerate}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ToggleRegistration godoc
// @Summary Открыть/закрыть регистрацию
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /admin/registration/toggle [post]
func (h *AdminHandler) ToggleRegistration(w http.ResponseWriter, r *http.Request) {
	open, err := h.brackets.ToggleRegistration(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"registration_open": open}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateFixtures godoc
// @Summary Сгенерировать матчи первого круга
// @Tags admin
// @Description Доступно при открытой регистрации и минимум двух участниках в одиночном разряде. После сохранения матчей регистрация закрывается.
// @Produce json
// @Success 201 {object} services.GenerationResult
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Регистрация закрыта"
// @Failure 409 {object} map[string]string "Недостаточно участников"
// @Failure 500 {object} map[string]string "Внутренняя ошибка"
// @Security BearerAuth
// @Router /admin/fixtures [post]
func (h *AdminHandler) GenerateFixtures(w http.ResponseWriter, r *http.Request) {
	if err := h.brackets.CheckCanGenerate(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	result, err := h.brackets.GenerateFixtures(r.Context())
	if err != nil {
		if result != nil {
			h.logger.Error("fixtures persisted but generation did not complete",
				slog.String("batch_id", result.BatchID),
				slog.Any("error", err))
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
