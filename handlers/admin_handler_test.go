package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-registration/services"
)

func TestAdminHandler_GenerateFixtures(t *testing.T) {
	batch := &services.GenerationResult{
		BatchID: "b-1",
		Singles: &services.PairingBatch{Category: "singles"},
		Doubles: &services.PairingBatch{Category: "doubles"},
	}

	tests := []struct {
		name         string
		generator    *stubGenerator
		wantStatus   int
		wantGenerate int
	}{
		{
			name:         "generated",
			generator:    &stubGenerator{result: batch},
			wantStatus:   http.StatusCreated,
			wantGenerate: 1,
		},
		{
			name:       "registration closed",
			generator:  &stubGenerator{checkErr: services.ErrRegistrationNotOpen},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "not enough entrants",
			generator:  &stubGenerator{checkErr: services.ErrNotEnoughEntrants},
			wantStatus: http.StatusConflict,
		},
		{
			name:         "gate left open",
			generator:    &stubGenerator{result: batch, generateErr: fmt.Errorf("%w: %w", services.ErrGateCloseFailed, errors.New("db down"))},
			wantStatus:   http.StatusInternalServerError,
			wantGenerate: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAdminHandler(tt.generator, &stubGate{open: true}, discardLogger())
			rec := httptest.NewRecorder()
			h.GenerateFixtures(rec, httptest.NewRequest(http.MethodPost, "/admin/fixtures", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantGenerate, tt.generator.generateHits)
			if tt.wantStatus == http.StatusCreated {
				assert.Contains(t, rec.Body.String(), `"batch_id": "b-1"`)
			}
		})
	}
}

func TestAdminHandler_GetRegistrationStatus(t *testing.T) {
	tests := []struct {
		name       string
		gate       *stubGate
		checkErr   error
		wantStatus int
		wantBody   []string
	}{
		{name: "ready", gate: &stubGate{open: true}, wantStatus: http.StatusOK, wantBody: []string{`"registration_open": true`, `"can_generate": true`}},
		{name: "too few", gate: &stubGate{open: true}, checkErr: services.ErrNotEnoughEntrants, wantStatus: http.StatusOK, wantBody: []string{`"can_generate": false`}},
		{name: "closed", gate: &stubGate{open: false}, checkErr: services.ErrRegistrationNotOpen, wantStatus: http.StatusOK, wantBody: []string{`"registration_open": false`}},
		{name: "store down", gate: &stubGate{err: errors.New("db down")}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAdminHandler(&stubGenerator{checkErr: tt.checkErr}, tt.gate, discardLogger())
			rec := httptest.NewRecorder()
			h.GetRegistrationStatus(rec, httptest.NewRequest(http.MethodGet, "/admin/registration", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestAdminHandler_ToggleRegistration(t *testing.T) {
	h := NewAdminHandler(&stubGenerator{toggled: true}, &stubGate{}, discardLogger())
	rec := httptest.NewRecorder()
	h.ToggleRegistration(rec, httptest.NewRequest(http.MethodPost, "/admin/registration/toggle", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"registration_open": true`)
}
