package models

import "time"

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusUpcoming  TournamentStatus = "upcoming"
	TournamentStatusOngoing   TournamentStatus = "ongoing"
	TournamentStatusCompleted TournamentStatus = "completed"
)

// Tournament is mutated by the bracket core in exactly two places: the
// seeder flips upcoming to ongoing, and the terminal advancement step sets
// completed together with the winner.
type Tournament struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Description  *string          `json:"description,omitempty"`
	Status       TournamentStatus `json:"status"`
	WinnerTeamID *int             `json:"winner_team_id,omitempty"`
	StartDate    time.Time        `json:"start_date"`
	CreatedAt    time.Time        `json:"created_at"`

	Games  []Game `json:"games,omitempty"`
	Winner *Team  `json:"winner,omitempty"`
}
