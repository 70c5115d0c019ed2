package models

import "time"

// AdvancementPolicy selects how a completed round produces the next one.
// It is fixed on the game configuration when the game is attached to the
// tournament, never inferred from stage labels.
type AdvancementPolicy string

const (
	// PolicyKnockout carries the winners of the completed round forward.
	PolicyKnockout AdvancementPolicy = "knockout"
	// PolicyGroupCut ranks group-stage teams by cumulative score and
	// advances the top half into a knockout bracket.
	PolicyGroupCut AdvancementPolicy = "group_cut"
)

func (p AdvancementPolicy) Valid() bool {
	return p == PolicyKnockout || p == PolicyGroupCut
}

// Game is a per-tournament game configuration. RoundCount is the desired
// number of scheduling rounds for the group phase; when nil the seeder
// falls back to team_count - 1.
type Game struct {
	ID           int               `json:"id"`
	TournamentID int               `json:"tournament_id"`
	Title        string            `json:"title"`
	EntryFee     int               `json:"entry_fee"`
	RoundCount   *int              `json:"round_count,omitempty"`
	Policy       AdvancementPolicy `json:"policy"`
	CreatedAt    time.Time         `json:"created_at"`
}
