package brackets

import (
	"context"

	"github.com/Dosada05/tournament-registration/models"
)

type GenerateBracketParams struct {
	Category models.Category
	Entrants []*models.Entrant
}

// BracketMatch описывает одну позицию сгенерированной сетки.
// Для нечётного состава последний участник попадает в матч с IsBye и без соперника.
type BracketMatch struct {
	UID          string
	Round        string
	OrderInRound int

	EntrantA *models.Entrant
	EntrantB *models.Entrant

	IsBye bool
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}
