package domain

import "time"

// UserStats is the aggregate snapshot the achievement evaluator computes
// once per sync instead of querying per achievement. WorkoutDates holds
// distinct calendar dates ("2006-01-02"), newest first, within the
// evaluator's lookback window.
type UserStats struct {
	WorkoutCount int64     `json:"workout_count"`
	MaxSetWeight float64   `json:"max_set_weight"`
	TotalVolume  float64   `json:"total_volume"`
	WorkoutDates []string  `json:"workout_dates"`
	ComputedAt   time.Time `json:"computed_at"`
}

// MaxConsecutiveDays returns the longest run of consecutive calendar dates
// in the snapshot. Dates are expected newest first; the walk compares
// adjacent pairs and resets on any gap other than exactly one day.
func (s *UserStats) MaxConsecutiveDays() int {
	count := len(s.WorkoutDates)
	if count == 0 {
		return 0
	}
	if count == 1 {
		return 1
	}

	currentRun := 1
	maxRun := 1
	for i := 0; i < count-1; i++ {
		cur, err1 := time.Parse("2006-01-02", s.WorkoutDates[i])
		next, err2 := time.Parse("2006-01-02", s.WorkoutDates[i+1])
		if err1 != nil || err2 != nil {
			continue
		}

		gap := int(cur.Sub(next).Hours() / 24)
		if gap < 0 {
			gap = -gap
		}
		if gap == 1 {
			currentRun++
		} else {
			if currentRun > maxRun {
				maxRun = currentRun
			}
			currentRun = 1
		}
	}

	if currentRun > maxRun {
		maxRun = currentRun
	}
	return maxRun
}
