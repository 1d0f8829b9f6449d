package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/services"
)

const eveBody = `{"name":"Eve","email":"eve@club.test","phone":"07123456789","category":"both"}`

func TestRegistrationHandler_Register(t *testing.T) {
	eve := &models.Entrant{ID: 1, Name: "Eve", Category: models.CategoryBoth, Fee: 10, PaymentReference: "pi_1"}

	tests := []struct {
		name       string
		body       string
		registrar  *stubRegistrar
		wantStatus int
		wantBody   string
	}{
		{
			name:       "created",
			body:       eveBody,
			registrar:  &stubRegistrar{result: &services.RegistrationResult{Entrant: eve, View: models.EmptyTournamentView()}},
			wantStatus: http.StatusCreated,
			wantBody:   `"payment_reference": "pi_1"`,
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			registrar:  &stubRegistrar{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"name":"Eve","team":"x"}`,
			registrar:  &stubRegistrar{},
			wantStatus: http.StatusBadRequest,
			wantBody:   "unknown key",
		},
		{
			name:       "validation",
			body:       `{}`,
			registrar:  &stubRegistrar{err: &services.ValidationError{Fields: map[string]string{"name": "must be provided"}}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"name": "must be provided"`,
		},
		{
			name:       "closed",
			body:       eveBody,
			registrar:  &stubRegistrar{err: services.ErrRegistrationNotOpen},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "payment failed",
			body:       eveBody,
			registrar:  &stubRegistrar{err: &services.PaymentError{Amount: 10, Err: services.ErrPaymentDeclined}},
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name:       "not saved after payment",
			body:       eveBody,
			registrar:  &stubRegistrar{err: &services.PersistenceError{PaymentReference: "pi_9", Err: errors.New("db down")}},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRegistrationHandler(tt.registrar, nil, discardLogger())

			req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "pi_9")
			}
		})
	}
}

func TestRegistrationHandler_PassesInputAndMails(t *testing.T) {
	eve := &models.Entrant{ID: 1, Name: "Eve", Email: "eve@club.test", Category: models.CategoryBoth}
	registrar := &stubRegistrar{result: &services.RegistrationResult{Entrant: eve, View: models.EmptyTournamentView()}}
	mailer := &chanMailer{sent: make(chan *models.Entrant, 1)}
	h := NewRegistrationHandler(registrar, mailer, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(eveBody))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, services.RegisterEntrantInput{
		Name:     "Eve",
		Email:    "eve@club.test",
		Phone:    "07123456789",
		Category: models.CategoryBoth,
	}, registrar.got)

	var body services.RegistrationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Eve", body.Entrant.Name)
	require.NotNil(t, body.View)

	select {
	case sent := <-mailer.sent:
		assert.Equal(t, "eve@club.test", sent.Email)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation e-mail was not sent")
	}
}
