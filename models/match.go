package models

import "time"

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusCompleted MatchStatus = "completed"
)

// Stage labels used on matches. Later knockout rounds with six or more
// advancing teams get a generated "stage_N" label instead.
const (
	StageGroup     = "group"
	StageSemiFinal = "semi_final"
	StageFinal     = "final"
)

// Match belongs to exactly one (tournament, game) pair. TeamBID is nil for a
// bye: a single-team match inserted already completed with the winner preset.
type Match struct {
	ID           int         `json:"id"`
	TournamentID int         `json:"tournament_id"`
	GameID       int         `json:"game_id"`
	Round        int         `json:"round"`
	Stage        string      `json:"stage"`
	MatchNumber  int         `json:"match_number"`
	TeamAID      int         `json:"team_a_id"`
	TeamBID      *int        `json:"team_b_id,omitempty"`
	TeamAScore   *int        `json:"team_a_score,omitempty"`
	TeamBScore   *int        `json:"team_b_score,omitempty"`
	Status       MatchStatus `json:"status"`
	WinnerTeamID *int        `json:"winner_team_id,omitempty"`
	LoserTeamID  *int        `json:"loser_team_id,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`

	TeamA *Team `json:"team_a,omitempty"`
	TeamB *Team `json:"team_b,omitempty"`
}

// IsBye reports whether the match has a single participant.
func (m *Match) IsBye() bool {
	return m.TeamBID == nil
}
