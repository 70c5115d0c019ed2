package brackets

import (
	"fmt"
	"math"

	"github.com/Amanzhol04/esports-arena/models"
)

// TotalRounds returns the number of knockout rounds a bracket of teamCount
// teams needs, ceil(log2(n)).
func TotalRounds(teamCount int) int {
	if teamCount < 2 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(teamCount))))
}

// RotateForBye applies the deterministic bye tie-break for an odd-length
// winners list: the last winner moves to the front before sequential
// pairing. Even-length input is returned as-is.
func RotateForBye(teamIDs []int) []int {
	if len(teamIDs)%2 == 0 {
		return teamIDs
	}
	rotated := make([]int, 0, len(teamIDs))
	rotated = append(rotated, teamIDs[len(teamIDs)-1])
	rotated = append(rotated, teamIDs[:len(teamIDs)-1]...)
	return rotated
}

// SequentialPairs pairs ids two-by-two in order. With an odd count the final
// id is returned as the bye recipient.
func SequentialPairs(teamIDs []int) (pairs [][2]int, bye *int) {
	for i := 0; i+1 < len(teamIDs); i += 2 {
		pairs = append(pairs, [2]int{teamIDs[i], teamIDs[i+1]})
	}
	if len(teamIDs)%2 != 0 {
		bye = &teamIDs[len(teamIDs)-1]
	}
	return pairs, bye
}

// NextStage derives the label of the round following completedRound from the
// number of advancing teams.
func NextStage(advancing, completedRound int) string {
	switch {
	case advancing == 2:
		return models.StageFinal
	case advancing == 4:
		return models.StageSemiFinal
	case advancing >= 6:
		return fmt.Sprintf("stage_%d", completedRound)
	default:
		return models.StageSemiFinal
	}
}
