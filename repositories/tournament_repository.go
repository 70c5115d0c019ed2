package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Amanzhol04/esports-arena/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	// Complete flips the tournament to completed and records the champion.
	// It only touches rows still in a non-terminal status, so a repeated
	// call is a harmless no-op.
	Complete(ctx context.Context, id int, winnerTeamID int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, description, status, winner_team_id, start_date, created_at
		FROM tournaments
		WHERE id = $1`

	tournament := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tournament.ID,
		&tournament.Name,
		&tournament.Description,
		&tournament.Status,
		&tournament.WinnerTeamID,
		&tournament.StartDate,
		&tournament.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Complete(ctx context.Context, id int, winnerTeamID int) error {
	query := `
		UPDATE tournaments
		SET status = $1, winner_team_id = $2
		WHERE id = $3 AND status <> $1`

	result, err := r.db.ExecContext(ctx, query, models.TournamentStatusCompleted, winnerTeamID, id)
	if err != nil {
		return err
	}
	// Zero affected rows means the tournament was already completed by a
	// concurrent advancement attempt; that is not an error.
	if _, err := result.RowsAffected(); err != nil {
		return err
	}
	return nil
}
