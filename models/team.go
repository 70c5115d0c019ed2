package models

import "time"

// Team is a read-only input to pairing and advancement. City is the origin
// attribute driving the avoid-same-origin pairing rule; it is optional.
type Team struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	GameID       int       `json:"game_id"`
	Name         string    `json:"name"`
	City         *string   `json:"city,omitempty"`
	CreatorID    int       `json:"creator_id"`
	Members      []string  `json:"members,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Creator *User `json:"creator,omitempty"`
}
