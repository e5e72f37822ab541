package services

import (
	"fmt"

	"notesphere/models"
)

const (
	recentNotesLimit  = 5
	activityMonthSpan = 6
)

// StatsService backs the dashboard cards and activity chart.
type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (ss *StatsService) Overview(userID int64) (*models.Stats, error) {
	stats, err := ss.repo.GetStats(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return stats, nil
}

func (ss *StatsService) Recent(userID int64) ([]models.Note, error) {
	notes, err := ss.repo.RecentNotes(userID, recentNotesLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return notes, nil
}

// Activity returns notes-per-month buckets for the last six months that
// had any activity.
func (ss *StatsService) Activity(userID int64) ([]models.MonthCount, error) {
	counts, err := ss.repo.NotesPerMonth(userID, activityMonthSpan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return counts, nil
}
