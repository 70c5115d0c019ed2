package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Amanzhol04/esports-arena/brackets"
	"github.com/Amanzhol04/esports-arena/models"
	"github.com/Amanzhol04/esports-arena/repositories"
)

// SeedingService creates the opening round of matches for a tournament game
// from its registered teams.
type SeedingService interface {
	CreateFirstRound(ctx context.Context, tournamentID, gameID int) ([]*models.Match, error)
}

type seedingService struct {
	tournamentRepo repositories.TournamentRepository
	gameRepo       repositories.GameRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	hub            Broadcaster
	logger         *slog.Logger
	rng            *rand.Rand
}

func NewSeedingService(
	tournamentRepo repositories.TournamentRepository,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub Broadcaster,
	logger *slog.Logger,
) SeedingService {
	return &seedingService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateFirstRound generates the round-1 group schedule and persists one
// pending match per pair. Re-invocation is safe: pairs that already have a
// match are skipped.
func (s *seedingService) CreateFirstRound(ctx context.Context, tournamentID, gameID int) ([]*models.Match, error) {
	if tournamentID <= 0 || gameID <= 0 {
		return nil, fmt.Errorf("%w: tournament and game ids are required", ErrValidationFailed)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	game, err := s.gameRepo.GetByTournament(ctx, tournamentID, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotConfigured
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}

	teams, err := s.teamRepo.ListByGame(ctx, tournamentID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d game %d: %w", tournamentID, gameID, err)
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teams))
	}

	rounds := len(teams) - 1
	if game.RoundCount != nil && *game.RoundCount > 0 {
		rounds = *game.RoundCount
	}

	schedule, err := brackets.GenerateSchedule(teams, rounds, s.rng)
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughTeams) {
			return nil, fmt.Errorf("%w: %v", ErrNotEnoughTeams, err)
		}
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	matchNumber, err := s.matchRepo.MaxMatchNumber(ctx, tournamentID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to read current match number: %w", err)
	}

	created := make([]*models.Match, 0)
	for _, pair := range schedule.Pairs() {
		teamBID := pair.TeamB.ID
		exists, err := s.matchRepo.PairExists(ctx, tournamentID, gameID, 1, pair.TeamA.ID, &teamBID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing pairing: %w", err)
		}
		if exists {
			s.logger.WarnContext(ctx, "skipping already seeded pair",
				slog.Int("tournament_id", tournamentID),
				slog.Int("game_id", gameID),
				slog.Int("team_a_id", pair.TeamA.ID),
				slog.Int("team_b_id", teamBID),
			)
			continue
		}

		matchNumber++
		match := &models.Match{
			TournamentID: tournamentID,
			GameID:       gameID,
			Round:        1,
			Stage:        models.StageGroup,
			MatchNumber:  matchNumber,
			TeamAID:      pair.TeamA.ID,
			TeamBID:      &teamBID,
			Status:       models.MatchStatusPending,
		}
		if err := s.matchRepo.Create(ctx, match); err != nil {
			return nil, fmt.Errorf("failed to create match %d: %w", matchNumber, err)
		}
		match.TeamA = pair.TeamA
		match.TeamB = pair.TeamB
		created = append(created, match)
	}

	if tournament.Status == models.TournamentStatusUpcoming && len(created) > 0 {
		if err := s.tournamentRepo.UpdateStatus(ctx, tournamentID, models.TournamentStatusOngoing); err != nil {
			return nil, fmt.Errorf("failed to mark tournament ongoing: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "first round seeded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("game_id", gameID),
		slog.String("policy", string(game.Policy)),
		slog.Int("teams", len(teams)),
		slog.Int("matches_created", len(created)),
	)

	if s.hub != nil && len(created) > 0 {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.Message{
			Type:    brackets.EventRoundSeeded,
			RoomID:  tournamentRoom(tournamentID),
			Payload: matchesToValues(created),
		})
	}

	return created, nil
}
