package schedule

import (
	"context"
	"time"

	"github.com/M4yankkkk/ChronoTask/internal/model"
)

// Progress summarizes how much of a week's tasks are completed. It feeds
// the dashboard's progress tracker.
type Progress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// WeekProgress computes completion progress over the window enclosing ref.
func (s *Service) WeekProgress(ctx context.Context, ownerID string, ref time.Time, weekStart time.Weekday) (Progress, error) {
	tasks, err := s.GetWeek(ctx, ownerID, ref, weekStart)
	if err != nil {
		return Progress{}, err
	}

	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == model.StatusCompleted {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = float64(p.Completed) / float64(p.Total) * 100
	}
	return p, nil
}
