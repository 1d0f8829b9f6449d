package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/services"
)

type tournamentViewer interface {
	LoadBestEffort(ctx context.Context) *models.TournamentView
}

type TournamentHandler struct {
	views tournamentViewer
}

func NewTournamentHandler(views tournamentViewer) *TournamentHandler {
	return &TournamentHandler{views: views}
}

// GetTournament godoc
// @Summary Текущее состояние турнира
// @Tags tournament
// @Description Флаг регистрации, составы по категориям и сгенерированные матчи. При сбое хранилища возвращается пустое состояние.
// @Produce json
// @Success 200 {object} map[string]interface{} "tournament"
// @Router /tournament [get]
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	view := h.views.LoadBestEffort(r.Context())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFees godoc
// @Summary Взносы по категориям
// @Tags tournament
// @Description Без параметра возвращает всю таблицу взносов, с параметром category только взнос этой категории.
// @Produce json
// @Param category query string false "singles | doubles | both"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Неизвестная категория"
// @Router /fees [get]
func (h *TournamentHandler) GetFees(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		response := jsonResponse{"currency": services.Currency, "fees": services.FeeSchedule()}
		if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	fee, err := services.Quote(models.Category(category))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	response := jsonResponse{"currency": services.Currency, "category": category, "fee": fee}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
