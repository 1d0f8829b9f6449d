package models

import "time"

// RoundOpening is the label of the only round the pairing engine produces.
const RoundOpening = "Quarterfinal"

// Fixture описывает матч первого круга между двумя участниками одной категории.
type Fixture struct {
	BatchID      string    `json:"batch_id" db:"batch_id"`
	ID           string    `json:"id" db:"fixture_id"`
	Category     Category  `json:"category" db:"category"`
	EntrantA     string    `json:"entrant_a" db:"entrant_a"`
	EntrantB     string    `json:"entrant_b" db:"entrant_b"`
	Result       *string   `json:"result,omitempty" db:"result"`
	RoundLabel   string    `json:"round" db:"round_label"`
	OrderInRound int       `json:"order_in_round" db:"order_in_round"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
