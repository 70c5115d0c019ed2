package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Amanzhol04/esports-arena/brackets"
	"github.com/Amanzhol04/esports-arena/models"
	"github.com/Amanzhol04/esports-arena/repositories"
)

// ScoreSubmission carries the scores a user is trying to record. Either side
// may be nil; a non-admin may only fill the side belonging to their own team.
type ScoreSubmission struct {
	TeamAScore *int
	TeamBScore *int
}

// MatchService resolves match outcomes from score submissions.
type MatchService interface {
	SubmitScore(ctx context.Context, matchID, actorID int, submission ScoreSubmission) (*models.Match, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
}

type matchService struct {
	matchRepo   repositories.MatchRepository
	teamRepo    repositories.TeamRepository
	userRepo    repositories.UserRepository
	advancement AdvancementService
	hub         Broadcaster
	logger      *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	advancement AdvancementService,
	hub Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		advancement: advancement,
		hub:         hub,
		logger:      logger,
	}
}

// SubmitScore records scores on a pending match and, once both sides hold a
// positive score, resolves the winner and triggers round advancement
// synchronously. Completed matches reject further edits.
func (s *matchService) SubmitScore(ctx context.Context, matchID, actorID int, submission ScoreSubmission) (*models.Match, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id is required", ErrValidationFailed)
	}
	if submission.TeamAScore == nil && submission.TeamBScore == nil {
		return nil, fmt.Errorf("%w: at least one score is required", ErrValidationFailed)
	}
	if (submission.TeamAScore != nil && *submission.TeamAScore < 0) ||
		(submission.TeamBScore != nil && *submission.TeamBScore < 0) {
		return nil, ErrInvalidScore
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", actorID, err)
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyCompleted
	}
	if match.IsBye() {
		return nil, ErrByeMatchImmutable
	}

	teamA, teamB, err := s.loadTeams(ctx, match)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		ownsA := teamA.CreatorID == actor.ID
		ownsB := teamB.CreatorID == actor.ID
		switch {
		case !ownsA && !ownsB:
			return nil, ErrNotMatchParticipant
		case ownsA && !ownsB && submission.TeamBScore != nil:
			return nil, ErrOpponentScoreForbidden
		case ownsB && !ownsA && submission.TeamAScore != nil:
			return nil, ErrOpponentScoreForbidden
		}
	}

	if submission.TeamAScore != nil {
		match.TeamAScore = submission.TeamAScore
	}
	if submission.TeamBScore != nil {
		match.TeamBScore = submission.TeamBScore
	}

	resolved := match.TeamAScore != nil && match.TeamBScore != nil &&
		*match.TeamAScore > 0 && *match.TeamBScore > 0
	if resolved {
		if *match.TeamAScore == *match.TeamBScore {
			// Hard rejection: nothing is persisted and the match stays
			// pending until an unequal result arrives.
			return nil, ErrDrawNotSupported
		}
		now := time.Now().UTC()
		if *match.TeamAScore > *match.TeamBScore {
			match.WinnerTeamID = &match.TeamAID
			match.LoserTeamID = match.TeamBID
		} else {
			match.WinnerTeamID = match.TeamBID
			match.LoserTeamID = &match.TeamAID
		}
		match.Status = models.MatchStatusCompleted
		match.CompletedAt = &now
	}

	if err := s.matchRepo.UpdateResult(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match %d: %w", matchID, err)
	}

	match.TeamA = teamA
	match.TeamB = teamB

	if resolved {
		s.logger.InfoContext(ctx, "match resolved",
			slog.Int("match_id", match.ID),
			slog.Int("tournament_id", match.TournamentID),
			slog.Int("game_id", match.GameID),
			slog.Int("round", match.Round),
			slog.String("winner", teamDisplayName(s.winnerTeam(match))),
		)

		if s.hub != nil {
			s.hub.BroadcastToRoom(tournamentRoom(match.TournamentID), brackets.Message{
				Type:    brackets.EventMatchCompleted,
				RoomID:  tournamentRoom(match.TournamentID),
				Payload: match,
			})
		}

		if _, err := s.advancement.AdvanceIfRoundComplete(ctx, match.TournamentID, match.GameID, match.Round); err != nil {
			return nil, fmt.Errorf("match %d saved but round advancement failed: %w", matchID, err)
		}
	}

	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	// Team names are presentation sugar; the match itself is still useful
	// if a lookup fails.
	if _, _, err := s.loadTeams(ctx, match); err != nil {
		s.logger.WarnContext(ctx, "failed to populate match teams",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}
	return match, nil
}

func (s *matchService) loadTeams(ctx context.Context, match *models.Match) (*models.Team, *models.Team, error) {
	teamA, err := s.teamRepo.GetByID(ctx, match.TeamAID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to load team %d: %w", match.TeamAID, err)
	}
	match.TeamA = teamA

	var teamB *models.Team
	if match.TeamBID != nil {
		teamB, err = s.teamRepo.GetByID(ctx, *match.TeamBID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, nil, ErrTeamNotFound
			}
			return nil, nil, fmt.Errorf("failed to load team %d: %w", *match.TeamBID, err)
		}
		match.TeamB = teamB
	}
	return teamA, teamB, nil
}

func (s *matchService) winnerTeam(match *models.Match) *models.Team {
	if match.WinnerTeamID == nil {
		return nil
	}
	if match.TeamA != nil && match.TeamA.ID == *match.WinnerTeamID {
		return match.TeamA
	}
	if match.TeamB != nil && match.TeamB.ID == *match.WinnerTeamID {
		return match.TeamB
	}
	return nil
}
