package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Amanzhol04/esports-arena/brackets"
	"github.com/Amanzhol04/esports-arena/models"
	"github.com/Amanzhol04/esports-arena/repositories"
)

// AdvancementService inspects a round after a match completes and, once every
// sibling match is resolved, materializes the next round or finishes the
// tournament.
type AdvancementService interface {
	AdvanceIfRoundComplete(ctx context.Context, tournamentID, gameID, round int) ([]*models.Match, error)
}

type advancementService struct {
	tournamentRepo repositories.TournamentRepository
	gameRepo       repositories.GameRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	hub            Broadcaster
	logger         *slog.Logger
	rng            *rand.Rand

	// One mutex per (tournament, game, round) serializes the
	// completeness-check-and-materialize step. Together with the
	// duplicate-pair guard on inserts it makes concurrent advancement
	// attempts for the same round converge on a single next round.
	locks sync.Map
}

func NewAdvancementService(
	tournamentRepo repositories.TournamentRepository,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	hub Broadcaster,
	logger *slog.Logger,
) AdvancementService {
	return &advancementService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *advancementService) roundLock(tournamentID, gameID, round int) *sync.Mutex {
	key := fmt.Sprintf("%d:%d:%d", tournamentID, gameID, round)
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// AdvanceIfRoundComplete returns the matches of the newly created round, or
// nil when the round is still running, when the tournament just finished, or
// when another attempt already advanced it.
func (s *advancementService) AdvanceIfRoundComplete(ctx context.Context, tournamentID, gameID, round int) ([]*models.Match, error) {
	mu := s.roundLock(tournamentID, gameID, round)
	mu.Lock()
	defer mu.Unlock()

	roundMatches, err := s.matchRepo.ListByGame(ctx, tournamentID, gameID, &round, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for round %d: %w", round, err)
	}
	if len(roundMatches) == 0 {
		return nil, nil
	}
	for _, m := range roundMatches {
		if m.Status != models.MatchStatusCompleted {
			return nil, nil
		}
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
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	var advancing []int
	if game.Policy == models.PolicyGroupCut && round == 1 {
		advancing = s.groupCut(teams, roundMatches)
	} else {
		winners := collectWinners(roundMatches)
		if len(winners) == 0 {
			s.logger.WarnContext(ctx, "round complete but no winners to advance",
				slog.Int("tournament_id", tournamentID),
				slog.Int("game_id", gameID),
				slog.Int("round", round),
			)
			return nil, nil
		}

		totalRounds := brackets.TotalRounds(len(teams))
		if round+1 > totalRounds {
			return nil, s.completeTournament(ctx, tournamentID, gameID, winners[0])
		}
		advancing = brackets.RotateForBye(winners)
	}

	if len(advancing) == 0 {
		s.logger.WarnContext(ctx, "no eligible teams for next round",
			slog.Int("tournament_id", tournamentID),
			slog.Int("game_id", gameID),
			slog.Int("round", round),
		)
		return nil, nil
	}
	if len(advancing) == 1 {
		// A lone survivor of the cut is the champion outright.
		return nil, s.completeTournament(ctx, tournamentID, gameID, advancing[0])
	}

	pairs, bye := brackets.SequentialPairs(advancing)
	stage := brackets.NextStage(len(advancing), round)
	created, err := s.materialize(ctx, tournamentID, gameID, round+1, stage, pairs, bye)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "round advanced",
		slog.Int("tournament_id", tournamentID),
		slog.Int("game_id", gameID),
		slog.Int("completed_round", round),
		slog.String("next_stage", stage),
		slog.Int("advancing_teams", len(advancing)),
		slog.Int("matches_created", len(created)),
	)

	if s.hub != nil && len(created) > 0 {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.Message{
			Type:    brackets.EventRoundAdvanced,
			RoomID:  tournamentRoom(tournamentID),
			Payload: matchesToValues(created),
		})
	}

	return created, nil
}

// groupCut ranks teams by cumulative group score and keeps the shuffled top
// half.
func (s *advancementService) groupCut(teams []*models.Team, groupMatches []*models.Match) []int {
	standings := brackets.GroupStandings(teams, groupMatches)
	advancing := brackets.TopHalf(standings)
	s.rng.Shuffle(len(advancing), func(i, j int) {
		advancing[i], advancing[j] = advancing[j], advancing[i]
	})
	return advancing
}

// collectWinners lists winning team ids in match order. A team that won more
// than one match of the round (multi-match opening rounds) advances once.
func collectWinners(matches []*models.Match) []int {
	winners := make([]int, 0, len(matches))
	seen := make(map[int]bool, len(matches))
	for _, m := range matches {
		if m.WinnerTeamID == nil || seen[*m.WinnerTeamID] {
			continue
		}
		seen[*m.WinnerTeamID] = true
		winners = append(winners, *m.WinnerTeamID)
	}
	return winners
}

func (s *advancementService) completeTournament(ctx context.Context, tournamentID, gameID, winnerTeamID int) error {
	if err := s.tournamentRepo.Complete(ctx, tournamentID, winnerTeamID); err != nil {
		return fmt.Errorf("failed to complete tournament %d: %w", tournamentID, err)
	}

	s.logger.InfoContext(ctx, "tournament completed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("game_id", gameID),
		slog.Int("winner_team_id", winnerTeamID),
	)

	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.Message{
			Type:   brackets.EventTournamentCompleted,
			RoomID: tournamentRoom(tournamentID),
			Payload: map[string]int{
				"tournament_id":  tournamentID,
				"game_id":        gameID,
				"winner_team_id": winnerTeamID,
			},
		})
	}
	return nil
}

func (s *advancementService) materialize(ctx context.Context, tournamentID, gameID, round int, stage string, pairs [][2]int, bye *int) ([]*models.Match, error) {
	matchNumber, err := s.matchRepo.MaxMatchNumber(ctx, tournamentID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to read current match number: %w", err)
	}

	created := make([]*models.Match, 0, len(pairs)+1)
	for _, pair := range pairs {
		teamBID := pair[1]
		exists, err := s.matchRepo.PairExists(ctx, tournamentID, gameID, round, pair[0], &teamBID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing pairing: %w", err)
		}
		if exists {
			continue
		}

		matchNumber++
		match := &models.Match{
			TournamentID: tournamentID,
			GameID:       gameID,
			Round:        round,
			Stage:        stage,
			MatchNumber:  matchNumber,
			TeamAID:      pair[0],
			TeamBID:      &teamBID,
			Status:       models.MatchStatusPending,
		}
		if err := s.matchRepo.Create(ctx, match); err != nil {
			return nil, fmt.Errorf("failed to create match %d: %w", matchNumber, err)
		}
		created = append(created, match)
	}

	if bye != nil {
		exists, err := s.matchRepo.PairExists(ctx, tournamentID, gameID, round, *bye, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing bye: %w", err)
		}
		if !exists {
			matchNumber++
			now := time.Now().UTC()
			byeMatch := &models.Match{
				TournamentID: tournamentID,
				GameID:       gameID,
				Round:        round,
				Stage:        stage,
				MatchNumber:  matchNumber,
				TeamAID:      *bye,
				Status:       models.MatchStatusCompleted,
				WinnerTeamID: bye,
				CompletedAt:  &now,
			}
			if err := s.matchRepo.Create(ctx, byeMatch); err != nil {
				return nil, fmt.Errorf("failed to create bye match: %w", err)
			}
			created = append(created, byeMatch)
		}
	}

	return created, nil
}
