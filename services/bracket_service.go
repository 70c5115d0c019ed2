package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Amanzhol04/esports-arena/brackets"
	"github.com/Amanzhol04/esports-arena/models"
	"github.com/Amanzhol04/esports-arena/repositories"
	"golang.org/x/sync/errgroup"
)

// BracketView is the read model for a tournament game: its configuration,
// registered teams, standings, and matches split into the opening group
// round and everything after it.
type BracketView struct {
	Game        *models.Game         `json:"game"`
	Teams       []models.Team        `json:"teams"`
	Standings   []brackets.TeamScore `json:"standings"`
	FirstRound  []models.Match       `json:"first_round"`
	LaterRounds []models.Match       `json:"later_rounds"`
}

type BracketService interface {
	GetBracket(ctx context.Context, tournamentID, gameID int) (*BracketView, error)
	GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	gameRepo       repositories.GameRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tournamentRepo: tournamentRepo,
		gameRepo:       gameRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID, gameID int) (*BracketView, error) {
	if tournamentID <= 0 || gameID <= 0 {
		return nil, fmt.Errorf("%w: tournament and game ids are required", ErrValidationFailed)
	}

	view := &BracketView{}
	var teams []*models.Team
	var matches []*models.Match

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		game, err := s.gameRepo.GetByTournament(gCtx, tournamentID, gameID)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotConfigured
			}
			return fmt.Errorf("failed to load game %d: %w", gameID, err)
		}
		view.Game = game
		return nil
	})

	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByGame(gCtx, tournamentID, gameID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByGame(gCtx, tournamentID, gameID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.Teams = teamsToValues(teams)
	groupMatches := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Stage == models.StageGroup {
			groupMatches = append(groupMatches, m)
		}
	}
	view.Standings = brackets.GroupStandings(teams, groupMatches)
	for _, m := range matches {
		if m.Round == 1 {
			view.FirstRound = append(view.FirstRound, *m)
		} else {
			view.LaterRounds = append(view.LaterRounds, *m)
		}
	}

	return view, nil
}

func (s *bracketService) GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	return tournament, nil
}
