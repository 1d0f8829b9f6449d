package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/repositories"
	"golang.org/x/sync/errgroup"
)

// ProjectTournament раскладывает записи хранилища по категориям.
// Участник категории both попадает в оба состава; матчи делятся строго по своей категории.
func ProjectTournament(entrants []*models.Entrant, fixtures []*models.Fixture, registrationOpen bool) *models.TournamentView {
	view := models.EmptyTournamentView()
	view.RegistrationOpen = registrationOpen

	for _, e := range entrants {
		if e.Category.Includes(models.CategorySingles) {
			view.Entrants.Singles = append(view.Entrants.Singles, e)
		}
		if e.Category.Includes(models.CategoryDoubles) {
			view.Entrants.Doubles = append(view.Entrants.Doubles, e)
		}
	}

	for _, f := range fixtures {
		switch f.Category {
		case models.CategorySingles:
			view.Fixtures.Singles = append(view.Fixtures.Singles, f)
		case models.CategoryDoubles:
			view.Fixtures.Doubles = append(view.Fixtures.Doubles, f)
		}
	}

	return view
}

// ViewService пересчитывает проекцию турнира при каждом чтении, ничего не кэшируя.
type ViewService struct {
	entrantRepo repositories.EntrantRepository
	fixtureRepo repositories.FixtureRepository
	gate        *RegistrationGate
	logger      *slog.Logger
}

func NewViewService(
	entrantRepo repositories.EntrantRepository,
	fixtureRepo repositories.FixtureRepository,
	gate *RegistrationGate,
	logger *slog.Logger,
) *ViewService {
	return &ViewService{
		entrantRepo: entrantRepo,
		fixtureRepo: fixtureRepo,
		gate:        gate,
		logger:      logger,
	}
}

func (s *ViewService) Load(ctx context.Context) (*models.TournamentView, error) {
	var (
		entrants []*models.Entrant
		fixtures []*models.Fixture
		open     bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entrants, err = s.entrantRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load entrants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		fixtures, err = s.fixtureRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		open, err = s.gate.IsOpen(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ProjectTournament(entrants, fixtures, open), nil
}

// LoadBestEffort is the public read path: a load failure degrades to an empty view.
func (s *ViewService) LoadBestEffort(ctx context.Context) *models.TournamentView {
	view, err := s.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load tournament view, serving empty view", slog.Any("error", err))
		return models.EmptyTournamentView()
	}
	return view
}

// Roster returns the current roster of one bracket category.
func (s *ViewService) Roster(ctx context.Context, category models.Category) ([]*models.Entrant, error) {
	entrants, err := s.entrantRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entrants: %w", err)
	}
	return ProjectTournament(entrants, nil, true).Entrants.For(category), nil
}
