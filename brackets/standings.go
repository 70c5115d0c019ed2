package brackets

import (
	"sort"

	"github.com/Amanzhol04/esports-arena/models"
)

// TeamScore is one row of the group-stage ranking.
type TeamScore struct {
	TeamID int `json:"team_id"`
	Total  int `json:"total"`
	Played int `json:"played"`
}

// GroupStandings accumulates each team's cumulative score over its completed
// matches and ranks teams by total, highest first. Every registered team gets
// a row even with no matches played. Byes and unscored sides contribute
// nothing. Ties break on lower team id so the ranking is stable across runs.
func GroupStandings(teams []*models.Team, matches []*models.Match) []TeamScore {
	totals := make(map[int]*TeamScore, len(teams))
	order := make([]int, 0, len(teams))
	for _, t := range teams {
		totals[t.ID] = &TeamScore{TeamID: t.ID}
		order = append(order, t.ID)
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted {
			continue
		}
		if row, ok := totals[m.TeamAID]; ok && m.TeamAScore != nil {
			row.Total += *m.TeamAScore
			row.Played++
		}
		if m.TeamBID != nil {
			if row, ok := totals[*m.TeamBID]; ok && m.TeamBScore != nil {
				row.Total += *m.TeamBScore
				row.Played++
			}
		}
	}

	standings := make([]TeamScore, 0, len(order))
	for _, id := range order {
		standings = append(standings, *totals[id])
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].TeamID < standings[j].TeamID
	})
	return standings
}

// TopHalf returns the team ids of the upper floor(n/2) of the standings in
// ranking order.
func TopHalf(standings []TeamScore) []int {
	cut := len(standings) / 2
	ids := make([]int, 0, cut)
	for _, row := range standings[:cut] {
		ids = append(ids, row.TeamID)
	}
	return ids
}
