package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Amanzhol04/esports-arena/models"
	"github.com/lib/pq"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByGame(ctx context.Context, tournamentID, gameID int) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, tournament_id, game_id, name, city, creator_id, members, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.TournamentID,
		&team.GameID,
		&team.Name,
		&team.City,
		&team.CreatorID,
		pq.Array(&team.Members),
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByGame(ctx context.Context, tournamentID, gameID int) ([]*models.Team, error) {
	query := `
		SELECT id, tournament_id, game_id, name, city, creator_id, members, created_at
		FROM teams
		WHERE tournament_id = $1 AND game_id = $2
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID,
			&team.TournamentID,
			&team.GameID,
			&team.Name,
			&team.City,
			&team.CreatorID,
			pq.Array(&team.Members),
			&team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, &team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}
