package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type stubViews struct {
	view *models.TournamentView
}

func (s *stubViews) LoadBestEffort(ctx context.Context) *models.TournamentView {
	if s.view == nil {
		return models.EmptyTournamentView()
	}
	return s.view
}

type stubRegistrar struct {
	result *services.RegistrationResult
	err    error
	got    services.RegisterEntrantInput
}

func (s *stubRegistrar) Register(ctx context.Context, input services.RegisterEntrantInput) (*services.RegistrationResult, error) {
	s.got = input
	return s.result, s.err
}

type chanMailer struct {
	sent chan *models.Entrant
}

func (m *chanMailer) SendRegistrationConfirmation(entrant *models.Entrant) error {
	m.sent <- entrant
	return nil
}

type stubGenerator struct {
	mu           sync.Mutex
	checkErr     error
	result       *services.GenerationResult
	generateErr  error
	toggled      bool
	toggleErr    error
	generateHits int
}

func (s *stubGenerator) CheckCanGenerate(ctx context.Context) error { return s.checkErr }

func (s *stubGenerator) GenerateFixtures(ctx context.Context) (*services.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generateHits++
	return s.result, s.generateErr
}

func (s *stubGenerator) ToggleRegistration(ctx context.Context) (bool, error) {
	return s.toggled, s.toggleErr
}

type stubGate struct {
	open bool
	err  error
}

func (s *stubGate) IsOpen(ctx context.Context) (bool, error) { return s.open, s.err }

type stubAuth struct {
	session    *services.Session
	signInErr  error
	signOutErr error
	signedOut  string
}

func (s *stubAuth) SignIn(ctx context.Context, email, password string) (*services.Session, error) {
	return s.session, s.signInErr
}

func (s *stubAuth) SignOut(ctx context.Context, token string) error {
	s.signedOut = token
	return s.signOutErr
}
