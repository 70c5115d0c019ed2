package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amanzhol04/esports-arena/models"
)

// completedPair adds a completed round match with the given scores; the winner
// falls out of the score comparison.
func (f *fixture) completedPair(round, matchNumber, teamA, teamB, scoreA, scoreB int) *models.Match {
	now := time.Now().UTC()
	winner, loser := teamA, teamB
	if scoreB > scoreA {
		winner, loser = teamB, teamA
	}
	return f.addMatch(models.Match{
		TournamentID: 1,
		GameID:       1,
		Round:        round,
		Stage:        models.StageGroup,
		MatchNumber:  matchNumber,
		TeamAID:      teamA,
		TeamBID:      intPtr(teamB),
		TeamAScore:   intPtr(scoreA),
		TeamBScore:   intPtr(scoreB),
		Status:       models.MatchStatusCompleted,
		WinnerTeamID: intPtr(winner),
		LoserTeamID:  intPtr(loser),
		CompletedAt:  &now,
	})
}

func knockoutFixture(teamCount int) *fixture {
	f := newFixture()
	f.addTournament(1, models.TournamentStatusOngoing)
	f.addGame(1, 1, models.PolicyKnockout, nil)
	for i := 1; i <= teamCount; i++ {
		f.addTeam(i*10, 1, 1, i*100)
	}
	return f
}

func TestAdvanceWaitsForPendingMatches(t *testing.T) {
	f := knockoutFixture(4)
	f.completedPair(1, 1, 10, 20, 2, 1)
	f.addMatch(models.Match{
		TournamentID: 1, GameID: 1, Round: 1, Stage: models.StageGroup,
		MatchNumber: 2, TeamAID: 30, TeamBID: intPtr(40),
		Status: models.MatchStatusPending,
	})

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Equal(t, 2, f.matchCount())
}

func TestAdvanceKnockoutPairsWinnersInOrder(t *testing.T) {
	f := knockoutFixture(4)
	f.completedPair(1, 1, 10, 20, 2, 1)
	f.completedPair(1, 2, 30, 40, 1, 3)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)

	final := created[0]
	assert.Equal(t, 2, final.Round)
	assert.Equal(t, models.StageFinal, final.Stage)
	assert.Equal(t, models.MatchStatusPending, final.Status)
	assert.Equal(t, 10, final.TeamAID)
	require.NotNil(t, final.TeamBID)
	assert.Equal(t, 40, *final.TeamBID)
	assert.Equal(t, 3, final.MatchNumber)
}

func TestAdvanceOddWinnersCreatesBye(t *testing.T) {
	f := knockoutFixture(6)
	f.completedPair(1, 1, 10, 20, 2, 1)
	f.completedPair(1, 2, 30, 40, 3, 1)
	f.completedPair(1, 3, 50, 60, 2, 0)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, created, 2)

	// Winners [10 30 50] rotate to [50 10 30]: 50 faces 10, 30 sits out.
	playing := created[0]
	assert.Equal(t, models.StageSemiFinal, playing.Stage)
	assert.Equal(t, 50, playing.TeamAID)
	require.NotNil(t, playing.TeamBID)
	assert.Equal(t, 10, *playing.TeamBID)
	assert.Equal(t, models.MatchStatusPending, playing.Status)

	bye := created[1]
	assert.True(t, bye.IsBye())
	assert.Equal(t, 30, bye.TeamAID)
	assert.Equal(t, models.MatchStatusCompleted, bye.Status)
	require.NotNil(t, bye.WinnerTeamID)
	assert.Equal(t, 30, *bye.WinnerTeamID)
	require.NotNil(t, bye.CompletedAt)
}

func TestAdvanceTerminalRoundCompletesTournament(t *testing.T) {
	f := knockoutFixture(2)
	f.completedPair(1, 1, 10, 20, 2, 1)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Equal(t, 1, f.matchCount())

	tournament := f.data.tournaments[1]
	assert.Equal(t, models.TournamentStatusCompleted, tournament.Status)
	require.NotNil(t, tournament.WinnerTeamID)
	assert.Equal(t, 10, *tournament.WinnerTeamID)
}

func TestAdvanceGroupCutKeepsTopHalf(t *testing.T) {
	f := newFixture()
	f.addTournament(1, models.TournamentStatusOngoing)
	f.addGame(1, 1, models.PolicyGroupCut, intPtr(1))
	for i := 1; i <= 6; i++ {
		f.addTeam(i, 1, 1, i*100)
	}
	f.completedPair(1, 1, 1, 2, 9, 1)
	f.completedPair(1, 2, 3, 4, 7, 2)
	f.completedPair(1, 3, 5, 6, 5, 3)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, created, 2)

	advancing := make(map[int]bool)
	byes := 0
	for _, m := range created {
		assert.Equal(t, 2, m.Round)
		assert.Equal(t, models.StageSemiFinal, m.Stage)
		advancing[m.TeamAID] = true
		if m.IsBye() {
			byes++
		} else {
			advancing[*m.TeamBID] = true
		}
	}
	assert.Equal(t, 1, byes)
	// Totals: team 1 has 9, team 3 has 7, team 5 has 5; the rest trail.
	assert.Equal(t, map[int]bool{1: true, 3: true, 5: true}, advancing)
}

func TestAdvanceGroupCutPairsTeamsThatMetInGroups(t *testing.T) {
	f := newFixture()
	f.addTournament(1, models.TournamentStatusOngoing)
	f.addGame(1, 1, models.PolicyGroupCut, intPtr(3))
	for i := 1; i <= 4; i++ {
		f.addTeam(i, 1, 1, i*100)
	}
	// Full round robin; teams 1 (total 22) and 3 (total 17) take the cut and
	// already faced each other in match 2.
	f.completedPair(1, 1, 1, 2, 9, 0)
	f.completedPair(1, 2, 1, 3, 5, 4)
	f.completedPair(1, 3, 1, 4, 8, 1)
	f.completedPair(1, 4, 2, 3, 2, 7)
	f.completedPair(1, 5, 2, 4, 3, 1)
	f.completedPair(1, 6, 3, 4, 6, 2)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)

	final := created[0]
	assert.Equal(t, 2, final.Round)
	assert.Equal(t, models.StageFinal, final.Stage)
	assert.Equal(t, models.MatchStatusPending, final.Status)
	require.NotNil(t, final.TeamBID)
	assert.ElementsMatch(t, []int{1, 3}, []int{final.TeamAID, *final.TeamBID})
}

func TestAdvanceAllowsSecondBye(t *testing.T) {
	f := knockoutFixture(6)
	now := time.Now().UTC()
	// Team 50 already sat out once in round 1.
	f.addMatch(models.Match{
		TournamentID: 1, GameID: 1, Round: 1, Stage: models.StageGroup,
		MatchNumber: 1, TeamAID: 50,
		Status: models.MatchStatusCompleted, WinnerTeamID: intPtr(50), CompletedAt: &now,
	})
	f.completedPair(2, 4, 10, 20, 2, 1)
	f.addMatch(models.Match{
		TournamentID: 1, GameID: 1, Round: 2, Stage: models.StageSemiFinal,
		MatchNumber: 5, TeamAID: 50,
		Status: models.MatchStatusCompleted, WinnerTeamID: intPtr(50), CompletedAt: &now,
	})
	f.completedPair(2, 6, 30, 40, 1, 3)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	require.Len(t, created, 2)

	// Winners [10 50 40] rotate to [40 10 50]: team 50 sits out again.
	bye := created[1]
	assert.True(t, bye.IsBye())
	assert.Equal(t, 3, bye.Round)
	assert.Equal(t, 50, bye.TeamAID)
	assert.Equal(t, models.MatchStatusCompleted, bye.Status)
	require.NotNil(t, bye.WinnerTeamID)
	assert.Equal(t, 50, *bye.WinnerTeamID)
}

func TestAdvanceDedupesRepeatWinners(t *testing.T) {
	f := knockoutFixture(3)
	// Three-team opening round: team 10 wins twice.
	f.completedPair(1, 1, 10, 20, 2, 1)
	f.completedPair(1, 2, 10, 30, 3, 1)
	f.completedPair(1, 3, 20, 30, 1, 3)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)

	final := created[0]
	assert.Equal(t, models.StageFinal, final.Stage)
	assert.Equal(t, 10, final.TeamAID)
	require.NotNil(t, final.TeamBID)
	assert.Equal(t, 30, *final.TeamBID)
}

func TestAdvanceGroupCutLoneSurvivorWinsOutright(t *testing.T) {
	f := newFixture()
	f.addTournament(1, models.TournamentStatusOngoing)
	f.addGame(1, 1, models.PolicyGroupCut, intPtr(1))
	f.addTeam(1, 1, 1, 100)
	f.addTeam(2, 1, 1, 200)
	f.completedPair(1, 1, 1, 2, 4, 2)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, created)

	tournament := f.data.tournaments[1]
	assert.Equal(t, models.TournamentStatusCompleted, tournament.Status)
	require.NotNil(t, tournament.WinnerTeamID)
	assert.Equal(t, 1, *tournament.WinnerTeamID)
}

func TestAdvanceTwiceIsNoOp(t *testing.T) {
	f := knockoutFixture(4)
	f.completedPair(1, 1, 10, 20, 2, 1)
	f.completedPair(1, 2, 30, 40, 1, 3)

	first, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	total := f.matchCount()

	second, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, total, f.matchCount())
}

func TestAdvanceCompletedRoundWithoutWinners(t *testing.T) {
	f := knockoutFixture(4)
	now := time.Now().UTC()
	f.addMatch(models.Match{
		TournamentID: 1, GameID: 1, Round: 1, Stage: models.StageGroup,
		MatchNumber: 1, TeamAID: 10, TeamBID: intPtr(20),
		Status: models.MatchStatusCompleted, CompletedAt: &now,
	})

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Equal(t, 1, f.matchCount())
}

func TestAdvanceEmptyRoundIsNoOp(t *testing.T) {
	f := knockoutFixture(4)

	created, err := f.advancement.AdvanceIfRoundComplete(context.Background(), 1, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, created)
}
