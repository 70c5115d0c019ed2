package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Amanzhol04/esports-arena/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match references an unknown tournament or game")
	ErrMatchTeamInvalid       = errors.New("match references an unknown team")
	ErrMatchNumberConflict    = errors.New("match number already taken for this tournament and game")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByGame(ctx context.Context, tournamentID, gameID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	PairExists(ctx context.Context, tournamentID, gameID, round, teamAID int, teamBID *int) (bool, error)
	MaxMatchNumber(ctx context.Context, tournamentID, gameID int) (int, error)
	UpdateResult(ctx context.Context, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, game_id, round, stage, match_number,
		team_a_id, team_b_id, team_a_score, team_b_score,
		status, winner_team_id, loser_team_id, completed_at, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, game_id, round, stage, match_number,
			 team_a_id, team_b_id, team_a_score, team_b_score,
			 status, winner_team_id, loser_team_id, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.TournamentID,
		match.GameID,
		match.Round,
		match.Stage,
		match.MatchNumber,
		match.TeamAID,
		match.TeamBID,
		match.TeamAScore,
		match.TeamBScore,
		match.Status,
		match.WinnerTeamID,
		match.LoserTeamID,
		match.CompletedAt,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.TournamentID,
		&match.GameID,
		&match.Round,
		&match.Stage,
		&match.MatchNumber,
		&match.TeamAID,
		&match.TeamBID,
		&match.TeamAScore,
		&match.TeamBScore,
		&match.Status,
		&match.WinnerTeamID,
		&match.LoserTeamID,
		&match.CompletedAt,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByGame(ctx context.Context, tournamentID, gameID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1 AND game_id = $2`)

	args := []interface{}{tournamentID, gameID}
	placeholderIndex := 3

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY round ASC, match_number ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.TournamentID,
			&match.GameID,
			&match.Round,
			&match.Stage,
			&match.MatchNumber,
			&match.TeamAID,
			&match.TeamBID,
			&match.TeamAScore,
			&match.TeamBScore,
			&match.Status,
			&match.WinnerTeamID,
			&match.LoserTeamID,
			&match.CompletedAt,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

// PairExists reports whether a match in the given round already connects the
// two teams in either orientation. A nil teamBID checks for an existing bye of
// teamAID in that round. Scoping to one round keeps retried inserts idempotent
// while still allowing rematches in later rounds.
func (r *postgresMatchRepository) PairExists(ctx context.Context, tournamentID, gameID, round, teamAID int, teamBID *int) (bool, error) {
	var query string
	var args []interface{}

	if teamBID == nil {
		query = `
			SELECT EXISTS (
				SELECT 1 FROM matches
				WHERE tournament_id = $1 AND game_id = $2 AND round = $3
				  AND team_a_id = $4 AND team_b_id IS NULL
			)`
		args = []interface{}{tournamentID, gameID, round, teamAID}
	} else {
		query = `
			SELECT EXISTS (
				SELECT 1 FROM matches
				WHERE tournament_id = $1 AND game_id = $2 AND round = $3
				  AND ((team_a_id = $4 AND team_b_id = $5)
				    OR (team_a_id = $5 AND team_b_id = $4))
			)`
		args = []interface{}{tournamentID, gameID, round, teamAID, *teamBID}
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresMatchRepository) MaxMatchNumber(ctx context.Context, tournamentID, gameID int) (int, error) {
	query := `
		SELECT COALESCE(MAX(match_number), 0)
		FROM matches
		WHERE tournament_id = $1 AND game_id = $2`

	var max int
	if err := r.db.QueryRowContext(ctx, query, tournamentID, gameID).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET team_a_score = $1, team_b_score = $2, status = $3,
		    winner_team_id = $4, loser_team_id = $5, completed_at = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		match.TeamAScore,
		match.TeamBScore,
		match.Status,
		match.WinnerTeamID,
		match.LoserTeamID,
		match.CompletedAt,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_tournament_id_fkey", "matches_game_id_fkey":
				return ErrMatchTournamentInvalid
			case "matches_team_a_id_fkey", "matches_team_b_id_fkey",
				"matches_winner_team_id_fkey", "matches_loser_team_id_fkey":
				return ErrMatchTeamInvalid
			}
		case "23505": // unique_violation
			if pqErr.Constraint == "matches_tournament_game_number_key" {
				return ErrMatchNumberConflict
			}
		}
	}
	return err
}
