package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/Dosada05/tournament-registration/brackets"
	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/repositories"
)

// Broadcaster рассылает обновлённую проекцию подписчикам (WebSocket-хаб).
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type RegisterEntrantInput struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Category models.Category `json:"category"`
}

// RegistrationResult содержит сохранённого участника и проекцию, перечитанную после записи.
type RegistrationResult struct {
	Entrant *models.Entrant        `json:"entrant"`
	View    *models.TournamentView `json:"tournament"`
}

// RegistrationService проводит заявку через проверку, оплату и сохранение.
type RegistrationService struct {
	entrantRepo repositories.EntrantRepository
	gate        *RegistrationGate
	gateway     PaymentGateway
	views       *ViewService
	broadcaster Broadcaster
	clock       clockwork.Clock
	logger      *slog.Logger
}

func NewRegistrationService(
	entrantRepo repositories.EntrantRepository,
	gate *RegistrationGate,
	gateway PaymentGateway,
	views *ViewService,
	broadcaster Broadcaster,
	clock clockwork.Clock,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		entrantRepo: entrantRepo,
		gate:        gate,
		gateway:     gateway,
		views:       views,
		broadcaster: broadcaster,
		clock:       clock,
		logger:      logger,
	}
}

// ValidateEntrant is a purely local check; it never reaches a collaborator.
func ValidateEntrant(input RegisterEntrantInput) error {
	fields := make(map[string]string)
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "must be provided"
	}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "must be provided"
	}
	if strings.TrimSpace(input.Phone) == "" {
		fields["phone"] = "must be provided"
	}
	switch {
	case strings.TrimSpace(string(input.Category)) == "":
		fields["category"] = "must be provided"
	case !input.Category.IsValid():
		fields["category"] = "must be one of singles, doubles, both"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *RegistrationService) Register(ctx context.Context, input RegisterEntrantInput) (*RegistrationResult, error) {
	if err := ValidateEntrant(input); err != nil {
		return nil, err
	}

	open, err := s.gate.IsOpen(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrRegistrationNotOpen
	}

	fee := FeeFor(input.Category)

	confirmation, err := s.gateway.Charge(ctx, fee)
	if err != nil {
		return nil, &PaymentError{Amount: fee, Err: err}
	}

	entrant := &models.Entrant{
		Name:             strings.TrimSpace(input.Name),
		Email:            strings.TrimSpace(input.Email),
		Phone:            strings.TrimSpace(input.Phone),
		Category:         input.Category,
		Fee:              fee,
		PaymentReference: confirmation.Reference,
		RegisteredAt:     s.clock.Now().UTC(),
	}

	// Платёж уже прошёл: отключение клиента не должно прервать сохранение
	if err := s.entrantRepo.Create(context.WithoutCancel(ctx), entrant); err != nil {
		// Возврата нет: по ссылке платёж сверяют вручную
		s.logger.Error("entrant not saved after successful payment",
			slog.String("payment_reference", confirmation.Reference),
			slog.Int("amount", fee),
			slog.Any("error", err))
		return nil, &PersistenceError{PaymentReference: confirmation.Reference, Err: err}
	}

	s.logger.Info("entrant registered",
		slog.Int("entrant_id", entrant.ID),
		slog.String("category", string(entrant.Category)),
		slog.Int("fee", fee))

	view := s.refreshView(ctx)
	return &RegistrationResult{Entrant: entrant, View: view}, nil
}

// refreshView re-reads the projection so the caller observes its own write,
// and pushes it to connected viewers.
func (s *RegistrationService) refreshView(ctx context.Context) *models.TournamentView {
	view, err := s.views.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to refresh tournament view after registration", slog.Any("error", err))
		return nil
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(brackets.TournamentRoom, brackets.WebSocketMessage{
			Type:    brackets.MessageRosterUpdated,
			Payload: view,
			RoomID:  brackets.TournamentRoom,
		})
	}
	return view
}

// Quote returns the fee a category would be charged, for display before payment.
func Quote(category models.Category) (int, error) {
	if !category.IsValid() {
		return 0, fmt.Errorf("%w: unknown category %q", ErrValidationFailed, category)
	}
	return FeeFor(category), nil
}
