package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Amanzhol04/esports-arena/models"
	"github.com/Amanzhol04/esports-arena/repositories"
)

// In-memory repository fakes. Reads hand out copies so services mutating a
// match must write it back through UpdateResult, same as with a real store.
type fakeData struct {
	mu          sync.Mutex
	users       map[int]*models.User
	teams       map[int]*models.Team
	games       map[int]*models.Game
	tournaments map[int]*models.Tournament
	matches     map[int]*models.Match
	nextMatchID int
}

func newFakeData() *fakeData {
	return &fakeData{
		users:       make(map[int]*models.User),
		teams:       make(map[int]*models.Team),
		games:       make(map[int]*models.Game),
		tournaments: make(map[int]*models.Tournament),
		matches:     make(map[int]*models.Match),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct{ d *fakeData }

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeTeamRepo struct{ d *fakeData }

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t, ok := r.d.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) ListByGame(_ context.Context, tournamentID, gameID int) ([]*models.Team, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	teams := make([]*models.Team, 0)
	for _, t := range r.d.teams {
		if t.TournamentID == tournamentID && t.GameID == gameID {
			copied := *t
			teams = append(teams, &copied)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

type fakeGameRepo struct{ d *fakeData }

func (r *fakeGameRepo) GetByTournament(_ context.Context, tournamentID, gameID int) (*models.Game, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	g, ok := r.d.games[gameID]
	if !ok || g.TournamentID != tournamentID {
		return nil, repositories.ErrGameNotFound
	}
	copied := *g
	return &copied, nil
}

type fakeTournamentRepo struct{ d *fakeData }

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t, ok := r.d.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t, ok := r.d.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) Complete(_ context.Context, id int, winnerTeamID int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t, ok := r.d.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if t.Status == models.TournamentStatusCompleted {
		return nil
	}
	t.Status = models.TournamentStatusCompleted
	t.WinnerTeamID = &winnerTeamID
	return nil
}

type fakeMatchRepo struct{ d *fakeData }

func (r *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.nextMatchID++
	match.ID = r.d.nextMatchID
	match.CreatedAt = time.Now()
	copied := *match
	r.d.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	m, ok := r.d.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) ListByGame(_ context.Context, tournamentID, gameID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	matches := make([]*models.Match, 0)
	for _, m := range r.d.matches {
		if m.TournamentID != tournamentID || m.GameID != gameID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		copied := *m
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
	return matches, nil
}

func (r *fakeMatchRepo) PairExists(_ context.Context, tournamentID, gameID, round, teamAID int, teamBID *int) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, m := range r.d.matches {
		if m.TournamentID != tournamentID || m.GameID != gameID || m.Round != round {
			continue
		}
		if teamBID == nil {
			if m.TeamAID == teamAID && m.TeamBID == nil {
				return true, nil
			}
			continue
		}
		if m.TeamBID == nil {
			continue
		}
		if (m.TeamAID == teamAID && *m.TeamBID == *teamBID) ||
			(m.TeamAID == *teamBID && *m.TeamBID == teamAID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMatchRepo) MaxMatchNumber(_ context.Context, tournamentID, gameID int) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	max := 0
	for _, m := range r.d.matches {
		if m.TournamentID == tournamentID && m.GameID == gameID && m.MatchNumber > max {
			max = m.MatchNumber
		}
	}
	return max, nil
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, match *models.Match) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	stored.TeamAScore = match.TeamAScore
	stored.TeamBScore = match.TeamBScore
	stored.Status = match.Status
	stored.WinnerTeamID = match.WinnerTeamID
	stored.LoserTeamID = match.LoserTeamID
	stored.CompletedAt = match.CompletedAt
	return nil
}

// fixture wires the full service stack over one fakeData store.
type fixture struct {
	data *fakeData

	seeding     SeedingService
	matches     MatchService
	advancement AdvancementService
	bracket     BracketService
}

func newFixture() *fixture {
	data := newFakeData()
	logger := testLogger()

	userRepo := &fakeUserRepo{d: data}
	teamRepo := &fakeTeamRepo{d: data}
	gameRepo := &fakeGameRepo{d: data}
	tournamentRepo := &fakeTournamentRepo{d: data}
	matchRepo := &fakeMatchRepo{d: data}

	advancement := NewAdvancementService(tournamentRepo, gameRepo, teamRepo, matchRepo, nil, logger)
	return &fixture{
		data:        data,
		seeding:     NewSeedingService(tournamentRepo, gameRepo, teamRepo, matchRepo, nil, logger),
		matches:     NewMatchService(matchRepo, teamRepo, userRepo, advancement, nil, logger),
		advancement: advancement,
		bracket:     NewBracketService(tournamentRepo, gameRepo, teamRepo, matchRepo, logger),
	}
}

func (f *fixture) addUser(id int, role models.UserRole) {
	f.data.users[id] = &models.User{ID: id, Nickname: "user", Role: role}
}

func (f *fixture) addTournament(id int, status models.TournamentStatus) {
	f.data.tournaments[id] = &models.Tournament{ID: id, Name: "Cup", Status: status}
}

func (f *fixture) addGame(id, tournamentID int, policy models.AdvancementPolicy, roundCount *int) {
	f.data.games[id] = &models.Game{
		ID:           id,
		TournamentID: tournamentID,
		Title:        "Game",
		Policy:       policy,
		RoundCount:   roundCount,
	}
}

func (f *fixture) addTeam(id, tournamentID, gameID, creatorID int) {
	f.data.teams[id] = &models.Team{
		ID:           id,
		TournamentID: tournamentID,
		GameID:       gameID,
		Name:         "Team",
		CreatorID:    creatorID,
	}
}

func (f *fixture) addMatch(m models.Match) *models.Match {
	f.data.nextMatchID++
	m.ID = f.data.nextMatchID
	m.CreatedAt = time.Now()
	f.data.matches[m.ID] = &m
	return &m
}

func (f *fixture) storedMatch(id int) *models.Match {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()
	copied := *f.data.matches[id]
	return &copied
}

func (f *fixture) matchCount() int {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()
	return len(f.data.matches)
}

func intPtr(v int) *int { return &v }
