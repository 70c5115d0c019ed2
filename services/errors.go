package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrUserNotFound       = errors.New("user not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrNotEnoughTeams        = errors.New("not enough teams registered (minimum 2)")
	ErrGameNotConfigured     = errors.New("game is not configured on this tournament")
	ErrInvalidScore          = errors.New("score must be a non-negative number")
	ErrDrawNotSupported      = errors.New("draw not supported in knockout format")
	ErrMatchAlreadyCompleted = errors.New("match is already completed")
	ErrByeMatchImmutable     = errors.New("bye match cannot accept a score")

	// Authorization
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrNotMatchParticipant    = errors.New("user does not own a team in this match")
	ErrOpponentScoreForbidden = errors.New("only the opponent or an admin can set the other team's score")
)
