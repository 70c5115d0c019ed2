package services

import (
	"fmt"

	"github.com/Amanzhol04/esports-arena/models"
)

// Broadcaster pushes bracket events to live subscribers. *brackets.Hub
// satisfies it; services tolerate a nil broadcaster.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

func tournamentRoom(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

func teamDisplayName(t *models.Team) string {
	if t == nil {
		return "TBD"
	}
	if t.Name != "" {
		return t.Name
	}
	if t.ID != 0 {
		return fmt.Sprintf("Team %d", t.ID)
	}
	return "Unnamed Team"
}

func matchesToValues(slice []*models.Match) []models.Match {
	if slice == nil {
		return []models.Match{}
	}
	result := make([]models.Match, len(slice))
	for i, ptr := range slice {
		if ptr != nil {
			result[i] = *ptr
		}
	}
	return result
}

func teamsToValues(slice []*models.Team) []models.Team {
	if slice == nil {
		return []models.Team{}
	}
	result := make([]models.Team, len(slice))
	for i, ptr := range slice {
		if ptr != nil {
			result[i] = *ptr
		}
	}
	return result
}
