package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dosada05/tournament-registration/repositories"
)

// RegistrationGate управляет флагом приёма заявок. Состояние хранится во внешнем хранилище,
// мьютекс лишь упорядочивает переходы внутри процесса.
type RegistrationGate struct {
	settings repositories.SettingsRepository
	mu       sync.Mutex
}

func NewRegistrationGate(settings repositories.SettingsRepository) *RegistrationGate {
	return &RegistrationGate{settings: settings}
}

func (g *RegistrationGate) IsOpen(ctx context.Context) (bool, error) {
	open, err := g.settings.GetRegistrationOpen(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read registration gate: %w", err)
	}
	return open, nil
}

// Close is idempotent: closing a closed gate writes nothing.
func (g *RegistrationGate) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	open, err := g.settings.GetRegistrationOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to read registration gate: %w", err)
	}
	if !open {
		return nil
	}
	if err := g.settings.SetRegistrationOpen(ctx, false); err != nil {
		return fmt.Errorf("failed to close registration gate: %w", err)
	}
	return nil
}

// Toggle flips the gate unconditionally and returns the new state.
// Nothing prevents reopening after fixtures exist.
func (g *RegistrationGate) Toggle(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	open, err := g.settings.GetRegistrationOpen(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read registration gate: %w", err)
	}
	if err := g.settings.SetRegistrationOpen(ctx, !open); err != nil {
		return open, fmt.Errorf("failed to toggle registration gate: %w", err)
	}
	return !open, nil
}
