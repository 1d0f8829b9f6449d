package models

// CategoryEntrants groups entrants by bracket category.
// An entrant registered for both categories appears in both slices.
type CategoryEntrants struct {
	Singles []*Entrant `json:"singles"`
	Doubles []*Entrant `json:"doubles"`
}

// For returns the roster of the given bracket category.
func (c CategoryEntrants) For(category Category) []*Entrant {
	switch category {
	case CategorySingles:
		return c.Singles
	case CategoryDoubles:
		return c.Doubles
	}
	return nil
}

// CategoryFixtures groups fixtures by their own category, without duplication.
type CategoryFixtures struct {
	Singles []*Fixture `json:"singles"`
	Doubles []*Fixture `json:"doubles"`
}

// TournamentView это проекция состояния турнира, пересчитываемая при каждом чтении.
type TournamentView struct {
	RegistrationOpen bool             `json:"registration_open"`
	Entrants         CategoryEntrants `json:"entrants"`
	Fixtures         CategoryFixtures `json:"fixtures"`
}

// EmptyTournamentView is what readers see when the store could not be loaded.
func EmptyTournamentView() *TournamentView {
	return &TournamentView{
		RegistrationOpen: true,
		Entrants:         CategoryEntrants{Singles: []*Entrant{}, Doubles: []*Entrant{}},
		Fixtures:         CategoryFixtures{Singles: []*Fixture{}, Doubles: []*Fixture{}},
	}
}
