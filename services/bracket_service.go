package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Dosada05/tournament-registration/brackets"
	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/repositories"
	"github.com/Dosada05/tournament-registration/storage"
)

const bracketSheetPrefix = "brackets/"

// PairingBatch содержит матчи одной категории из одного запуска жеребьёвки.
type PairingBatch struct {
	Category models.Category   `json:"category"`
	Fixtures []*models.Fixture `json:"fixtures"`
	// Unpaired holds the odd entrant out. It gets no fixture and does not advance.
	Unpaired []*models.Entrant `json:"unpaired"`
}

type GenerationResult struct {
	BatchID          string        `json:"batch_id"`
	Singles          *PairingBatch `json:"singles"`
	Doubles          *PairingBatch `json:"doubles"`
	RegistrationOpen bool          `json:"registration_open"`
	SheetURL         string        `json:"sheet_url,omitempty"`
}

// Batch returns the pairing batch of a bracket category.
func (r *GenerationResult) Batch(category models.Category) *PairingBatch {
	switch category {
	case models.CategorySingles:
		return r.Singles
	case models.CategoryDoubles:
		return r.Doubles
	}
	return nil
}

func (r *GenerationResult) setBatch(batch *PairingBatch) {
	switch batch.Category {
	case models.CategorySingles:
		r.Singles = batch
	case models.CategoryDoubles:
		r.Doubles = batch
	}
}

// BracketService строит первый круг для обеих категорий, сохраняет его и закрывает регистрацию.
type BracketService struct {
	fixtureRepo repositories.FixtureRepository
	views       *ViewService
	gate        *RegistrationGate
	generator   brackets.BracketGenerator
	broadcaster Broadcaster
	uploader    storage.FileUploader
	clock       clockwork.Clock
	logger      *slog.Logger
}

func NewBracketService(
	fixtureRepo repositories.FixtureRepository,
	views *ViewService,
	gate *RegistrationGate,
	generator brackets.BracketGenerator,
	broadcaster Broadcaster,
	uploader storage.FileUploader,
	clock clockwork.Clock,
	logger *slog.Logger,
) *BracketService {
	return &BracketService{
		fixtureRepo: fixtureRepo,
		views:       views,
		gate:        gate,
		generator:   generator,
		broadcaster: broadcaster,
		uploader:    uploader,
		clock:       clock,
		logger:      logger,
	}
}

// CheckCanGenerate holds the administrator-side preconditions. The engine itself does not check them.
func (s *BracketService) CheckCanGenerate(ctx context.Context) error {
	open, err := s.gate.IsOpen(ctx)
	if err != nil {
		return err
	}
	if !open {
		return ErrRegistrationNotOpen
	}
	singles, err := s.views.Roster(ctx, models.CategorySingles)
	if err != nil {
		return err
	}
	if len(singles) < 2 {
		return ErrNotEnoughEntrants
	}
	return nil
}

// PairCategory shuffles one roster and turns consecutive pairs into fixtures.
// A roster of 0 or 1 entrants yields an empty batch.
func (s *BracketService) PairCategory(ctx context.Context, batchID string, category models.Category, roster []*models.Entrant) (*PairingBatch, error) {
	matches, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Category: category,
		Entrants: roster,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pair %s roster: %w", category, err)
	}

	batch := &PairingBatch{
		Category: category,
		Fixtures: make([]*models.Fixture, 0, len(matches)),
		Unpaired: make([]*models.Entrant, 0, 1),
	}
	for _, m := range matches {
		if m.IsBye {
			batch.Unpaired = append(batch.Unpaired, m.EntrantA)
			continue
		}
		batch.Fixtures = append(batch.Fixtures, &models.Fixture{
			BatchID:    batchID,
			ID:           fmt.Sprintf("%s-%d", category, len(batch.Fixtures)+1),
			Category:     category,
			EntrantA:     m.EntrantA.Name,
			EntrantB:     m.EntrantB.Name,
			RoundLabel:   m.Round,
			OrderInRound: len(batch.Fixtures) + 1,
		})
	}
	return batch, nil
}

// GenerateFixtures pairs singles then doubles, appends both batches to the store
// in one call and only then closes the gate. Earlier batches are never replaced.
//
// If closing the gate fails the persisted batches are still returned together
// with an error wrapping ErrGateCloseFailed.
func (s *BracketService) GenerateFixtures(ctx context.Context) (*GenerationResult, error) {
	view, err := s.views.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{BatchID: uuid.NewString(), RegistrationOpen: view.RegistrationOpen}

	var fixtures []*models.Fixture
	for _, category := range models.BracketCategories {
		batch, err := s.PairCategory(ctx, result.BatchID, category, view.Entrants.For(category))
		if err != nil {
			return nil, err
		}
		result.setBatch(batch)
		fixtures = append(fixtures, batch.Fixtures...)
	}

	// Обе категории сохраняются одной транзакцией: либо весь запуск, либо ничего
	if err := s.fixtureRepo.CreateBatch(ctx, fixtures); err != nil {
		return nil, fmt.Errorf("failed to save fixtures of batch %s: %w", result.BatchID, err)
	}

	for _, category := range models.BracketCategories {
		batch := result.Batch(category)
		attrs := []any{
			slog.String("batch_id", result.BatchID),
			slog.String("category", string(category)),
			slog.Int("fixtures", len(batch.Fixtures)),
		}
		if len(batch.Unpaired) > 0 {
			attrs = append(attrs, slog.String("unpaired", batch.Unpaired[0].Name))
		}
		s.logger.Info("fixtures generated", attrs...)
	}

	if err := s.gate.Close(ctx); err != nil {
		s.logger.Error("fixtures saved but registration is still open",
			slog.String("batch_id", result.BatchID), slog.Any("error", err))
		return result, fmt.Errorf("%w: %w", ErrGateCloseFailed, err)
	}
	result.RegistrationOpen = false

	result.SheetURL = s.publishSheet(ctx, result)
	s.announce(ctx)

	return result, nil
}

type bracketSheet struct {
	BatchID     string            `json:"batch_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Round       string            `json:"round"`
	Singles     []*models.Fixture `json:"singles"`
	Doubles     []*models.Fixture `json:"doubles"`
}

// publishSheet uploads the batch as a JSON bracket sheet. Failures are logged only.
func (s *BracketService) publishSheet(ctx context.Context, result *GenerationResult) string {
	if s.uploader == nil {
		return ""
	}

	sheet := bracketSheet{
		BatchID:     result.BatchID,
		GeneratedAt: s.clock.Now().UTC(),
		Round:       models.RoundOpening,
		Singles:     result.Singles.Fixtures,
		Doubles:     result.Doubles.Fixtures,
	}
	body, err := json.MarshalIndent(sheet, "", "\t")
	if err != nil {
		s.logger.Error("failed to encode bracket sheet", slog.Any("error", err))
		return ""
	}

	key := bracketSheetPrefix + result.BatchID + ".json"
	uploaded, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		s.logger.Error("failed to publish bracket sheet", slog.String("key", key), slog.Any("error", err))
		return ""
	}
	return uploaded.Location
}

func (s *BracketService) announce(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	view, err := s.views.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to reload tournament view after generation", slog.Any("error", err))
		return
	}
	s.broadcaster.BroadcastToRoom(brackets.TournamentRoom, brackets.WebSocketMessage{
		Type:    brackets.MessageFixturesGenerated,
		Payload: view,
		RoomID:  brackets.TournamentRoom,
	})
}

// ToggleRegistration is the administrator's manual override of the gate.
func (s *BracketService) ToggleRegistration(ctx context.Context) (bool, error) {
	open, err := s.gate.Toggle(ctx)
	if err != nil {
		return open, err
	}
	s.logger.Info("registration toggled", slog.Bool("open", open))

	if s.broadcaster != nil {
		view, err := s.views.Load(ctx)
		if err != nil {
			s.logger.Warn("failed to reload tournament view after toggle", slog.Any("error", err))
			return open, nil
		}
		s.broadcaster.BroadcastToRoom(brackets.TournamentRoom, brackets.WebSocketMessage{
			Type:    brackets.MessageRegistrationToggled,
			Payload: view,
			RoomID:  brackets.TournamentRoom,
		})
	}
	return open, nil
}
