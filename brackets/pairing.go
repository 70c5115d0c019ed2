package brackets

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Amanzhol04/esports-arena/models"
)

var ErrNotEnoughTeams = errors.New("not enough teams to generate a schedule (minimum 2)")

// Pair is an unordered matchup between two distinct teams.
type Pair struct {
	TeamA *models.Team
	TeamB *models.Team
}

// Schedule is an ordered sequence of round buckets. Buckets near the end may
// hold fewer pairs when eligible matchups run out before every team exhausts
// its budget; that is expected, not an error.
type Schedule [][]Pair

// Pairs flattens the schedule in bucket order.
func (s Schedule) Pairs() []Pair {
	var out []Pair
	for _, bucket := range s {
		out = append(out, bucket...)
	}
	return out
}

// GenerateSchedule builds a deduplicated schedule of pairings across rounds.
//
// Rules:
//   - no unordered pair appears twice in the whole schedule,
//   - two teams sharing the same city never meet (skip rule, only applied
//     when both have a city set),
//   - each team appears in at most rounds pairs in total,
//   - the eligible universe and the selected list are both shuffled, then
//     the result is cut into rounds nearly-equal contiguous buckets.
func GenerateSchedule(teams []*models.Team, rounds int, rng *rand.Rand) (Schedule, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughTeams, len(teams))
	}
	if rounds < 1 {
		rounds = 1
	}

	eligible := make([]Pair, 0, len(teams)*(len(teams)-1)/2)
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			if sameCity(teams[i], teams[j]) {
				continue
			}
			eligible = append(eligible, Pair{TeamA: teams[i], TeamB: teams[j]})
		}
	}

	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	// Greedy pass over the shuffled universe, holding every team to at most
	// one pair per round across the whole schedule.
	appearances := make(map[int]int, len(teams))
	selected := make([]Pair, 0, len(eligible))
	for _, p := range eligible {
		if appearances[p.TeamA.ID] >= rounds || appearances[p.TeamB.ID] >= rounds {
			continue
		}
		appearances[p.TeamA.ID]++
		appearances[p.TeamB.ID]++
		selected = append(selected, p)
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	return splitIntoBuckets(selected, rounds), nil
}

func sameCity(a, b *models.Team) bool {
	if a.City == nil || b.City == nil {
		return false
	}
	return *a.City == *b.City
}

// splitIntoBuckets cuts pairs into count contiguous slices whose sizes
// differ by at most one, longer slices first.
func splitIntoBuckets(pairs []Pair, count int) Schedule {
	schedule := make(Schedule, count)
	base := len(pairs) / count
	extra := len(pairs) % count

	offset := 0
	for i := 0; i < count; i++ {
		size := base
		if i < extra {
			size++
		}
		schedule[i] = pairs[offset : offset+size]
		offset += size
	}
	return schedule
}
