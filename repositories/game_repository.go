package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Amanzhol04/esports-arena/models"
)

var ErrGameNotFound = errors.New("game configuration not found")

type GameRepository interface {
	// GetByTournament loads the game configuration only when it actually
	// belongs to the given tournament.
	GetByTournament(ctx context.Context, tournamentID, gameID int) (*models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) GetByTournament(ctx context.Context, tournamentID, gameID int) (*models.Game, error) {
	query := `
		SELECT id, tournament_id, title, entry_fee, round_count, policy, created_at
		FROM games
		WHERE id = $1 AND tournament_id = $2`

	game := &models.Game{}
	err := r.db.QueryRowContext(ctx, query, gameID, tournamentID).Scan(
		&game.ID,
		&game.TournamentID,
		&game.Title,
		&game.EntryFee,
		&game.RoundCount,
		&game.Policy,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}
