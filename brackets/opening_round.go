package brackets

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Dosada05/tournament-registration/models"
)

// OpeningRoundGenerator случайно разбивает состав категории на пары первого круга.
type OpeningRoundGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewOpeningRoundGenerator seeds from the runtime's entropy source.
func NewOpeningRoundGenerator() BracketGenerator {
	return &OpeningRoundGenerator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededOpeningRoundGenerator gives a reproducible sequence of shuffles.
func NewSeededOpeningRoundGenerator(seed1, seed2 uint64) BracketGenerator {
	return &OpeningRoundGenerator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (g *OpeningRoundGenerator) GetName() string {
	return "OpeningRound"
}

func (g *OpeningRoundGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shuffled := make([]*models.Entrant, len(params.Entrants))
	copy(shuffled, params.Entrants)

	// rand.Shuffle is a Fisher-Yates permutation; *rand.Rand is not safe for concurrent use
	g.mu.Lock()
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	g.mu.Unlock()

	matches := make([]*BracketMatch, 0, (len(shuffled)+1)/2)
	order := 0
	for i := 0; i < len(shuffled); i += 2 {
		order++
		m := &BracketMatch{
			UID:          fmt.Sprintf("%s-%d", params.Category, order),
			Round:        models.RoundOpening,
			OrderInRound: order,
			EntrantA:     shuffled[i],
		}
		if i+1 < len(shuffled) {
			m.EntrantB = shuffled[i+1]
		} else {
			m.IsBye = true
		}
		matches = append(matches, m)
	}

	return matches, nil
}
