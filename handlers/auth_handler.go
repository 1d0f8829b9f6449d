package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-registration/middleware"
	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/services"
)

type authenticator interface {
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	SignOut(ctx context.Context, token string) error
}

type AuthHandler struct {
	authService authenticator
}

func NewAuthHandler(authService authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignIn godoc
// @Summary Вход администратора
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.Credentials true "Email и пароль"
// @Success 200 {object} services.Session
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 401 {object} map[string]string "Неверные учётные данные"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	session, err := h.authService.SignIn(r.Context(), input.Email, input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, session, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SignOut godoc
// @Summary Выход администратора
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.GetTokenFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.authService.SignOut(r.Context(), token); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "signed out"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
