package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/services"
)

type registrar interface {
	Register(ctx context.Context, input services.RegisterEntrantInput) (*services.RegistrationResult, error)
}

type RegistrationHandler struct {
	registrations registrar
	mailer        services.Mailer
	logger        *slog.Logger
}

// NewRegistrationHandler принимает mailer == nil, если почта не настроена.
func NewRegistrationHandler(registrations registrar, mailer services.Mailer, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrations: registrations,
		mailer:        mailer,
		logger:        logger,
	}
}

// Register godoc
// @Summary Зарегистрироваться на турнир
// @Tags registrations
// @Description Проверяет заявку, списывает взнос и сохраняет участника. Ответ содержит обновлённое состояние турнира.
// @Accept json
// @Produce json
// @Param body body services.RegisterEntrantInput true "Данные участника"
// @Success 201 {object} services.RegistrationResult
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 402 {object} map[string]string "Платёж не прошёл"
// @Failure 403 {object} map[string]string "Регистрация закрыта"
// @Failure 422 {object} map[string]interface{} "Ошибки по полям"
// @Failure 500 {object} map[string]string "Платёж прошёл, но заявка не сохранена"
// @Router /registrations [post]
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterEntrantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.registrations.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if h.mailer != nil {
		go h.sendConfirmation(result.Entrant)
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RegistrationHandler) sendConfirmation(entrant *models.Entrant) {
	if err := h.mailer.SendRegistrationConfirmation(entrant); err != nil {
		h.logger.Warn("failed to send registration confirmation",
			slog.Int("entrant_id", entrant.ID),
			slog.Any("error", err))
	}
}
