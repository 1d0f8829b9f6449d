package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-registration/models"
)

func entrantsNamed(names ...string) []*models.Entrant {
	out := make([]*models.Entrant, len(names))
	for i, name := range names {
		out[i] = &models.Entrant{ID: i + 1, Name: name, Category: models.CategorySingles}
	}
	return out
}

func TestOpeningRoundGenerator_PairCounts(t *testing.T) {
	tests := []struct {
		size        int
		wantMatches int
		wantBye     bool
	}{
		{size: 0, wantMatches: 0},
		{size: 1, wantMatches: 1, wantBye: true},
		{size: 2, wantMatches: 1},
		{size: 3, wantMatches: 2, wantBye: true},
		{size: 8, wantMatches: 4},
		{size: 9, wantMatches: 5, wantBye: true},
	}

	gen := NewSeededOpeningRoundGenerator(1, 2)
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d entrants", tt.size), func(t *testing.T) {
			names := make([]string, tt.size)
			for i := range names {
				names[i] = fmt.Sprintf("player-%d", i)
			}
			roster := entrantsNamed(names...)

			matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
				Category: models.CategorySingles,
				Entrants: roster,
			})
			require.NoError(t, err)
			require.Len(t, matches, tt.wantMatches)

			byes := 0
			seen := make(map[string]int)
			for i, m := range matches {
				assert.Equal(t, models.RoundOpening, m.Round)
				assert.Equal(t, i+1, m.OrderInRound)
				seen[m.EntrantA.Name]++
				if m.IsBye {
					byes++
					assert.Nil(t, m.EntrantB)
					continue
				}
				require.NotNil(t, m.EntrantB)
				assert.NotEqual(t, m.EntrantA.Name, m.EntrantB.Name)
				seen[m.EntrantB.Name]++
			}

			if tt.wantBye {
				assert.Equal(t, 1, byes)
				assert.True(t, matches[len(matches)-1].IsBye, "bye must be the last match")
			} else {
				assert.Zero(t, byes)
			}
			assert.Len(t, seen, tt.size)
			for name, n := range seen {
				assert.Equal(t, 1, n, "%s paired more than once", name)
			}
		})
	}
}

func TestOpeningRoundGenerator_FourPlayersDisjoint(t *testing.T) {
	gen := NewSeededOpeningRoundGenerator(42, 7)
	roster := entrantsNamed("Alice", "Bob", "Carol", "Dave")

	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		Category: models.CategorySingles,
		Entrants: roster,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	names := []string{
		matches[0].EntrantA.Name, matches[0].EntrantB.Name,
		matches[1].EntrantA.Name, matches[1].EntrantB.Name,
	}
	assert.ElementsMatch(t, []string{"Alice", "Bob", "Carol", "Dave"}, names)
	assert.Equal(t, "singles-1", matches[0].UID)
	assert.Equal(t, "singles-2", matches[1].UID)
}

func TestOpeningRoundGenerator_DoesNotReorderInput(t *testing.T) {
	gen := NewSeededOpeningRoundGenerator(3, 4)
	roster := entrantsNamed("Alice", "Bob", "Carol", "Dave", "Erin", "Frank")

	_, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		Category: models.CategorySingles,
		Entrants: roster,
	})
	require.NoError(t, err)

	got := make([]string, len(roster))
	for i, e := range roster {
		got[i] = e.Name
	}
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}, got)
}

func TestOpeningRoundGenerator_SameSeedSamePairs(t *testing.T) {
	roster := entrantsNamed("Alice", "Bob", "Carol", "Dave", "Erin", "Frank")
	params := GenerateBracketParams{Category: models.CategorySingles, Entrants: roster}

	first, err := NewSeededOpeningRoundGenerator(9, 9).GenerateBracket(context.Background(), params)
	require.NoError(t, err)
	second, err := NewSeededOpeningRoundGenerator(9, 9).GenerateBracket(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].EntrantA.Name, second[i].EntrantA.Name)
		assert.Equal(t, first[i].EntrantB.Name, second[i].EntrantB.Name)
	}
}

func TestOpeningRoundGenerator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOpeningRoundGenerator().GenerateBracket(ctx, GenerateBracketParams{
		Category: models.CategoryDoubles,
		Entrants: entrantsNamed("Alice", "Bob"),
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpeningRoundGenerator_Name(t *testing.T) {
	assert.Equal(t, "OpeningRound", NewOpeningRoundGenerator().GetName())
}
