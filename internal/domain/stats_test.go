package domain

import (
	"testing"
)

func TestMaxConsecutiveDays(t *testing.T) {
	tests := []struct {
		name  string
		dates []string // newest first, as WorkoutDates returns them
		want  int
	}{
		{
			name:  "no workouts",
			dates: nil,
			want:  0,
		},
		{
			name:  "single day",
			dates: []string{"2026-03-10"},
			want:  1,
		},
		{
			name:  "three consecutive days",
			dates: []string{"2026-03-12", "2026-03-11", "2026-03-10"},
			want:  3,
		},
		{
			name:  "gap splits the run",
			dates: []string{"2026-03-15", "2026-03-14", "2026-03-10", "2026-03-09", "2026-03-08"},
			want:  3,
		},
		{
			name:  "longest run not at the front",
			dates: []string{"2026-03-20", "2026-03-10", "2026-03-09", "2026-03-08", "2026-03-07"},
			want:  4,
		},
		{
			name:  "month boundary",
			dates: []string{"2026-03-01", "2026-02-28", "2026-02-27"},
			want:  3,
		},
		{
			name:  "all isolated days",
			dates: []string{"2026-03-10", "2026-03-07", "2026-03-03"},
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &UserStats{WorkoutDates: tt.dates}
			if got := stats.MaxConsecutiveDays(); got != tt.want {
				t.Errorf("MaxConsecutiveDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAchievementUnlockedBy(t *testing.T) {
	stats := &UserStats{
		WorkoutCount: 10,
		MaxSetWeight: 120,
		TotalVolume:  6000,
		WorkoutDates: []string{"2026-03-12", "2026-03-11", "2026-03-10"},
	}

	tests := []struct {
		name        string
		achievement Achievement
		want        bool
	}{
		{"count met", Achievement{Type: AchievementCount, Threshold: 10}, true},
		{"count not met", Achievement{Type: AchievementCount, Threshold: 11}, false},
		{"weight met at threshold", Achievement{Type: AchievementWeightRecord, Threshold: 120}, true},
		{"weight not met", Achievement{Type: AchievementWeightRecord, Threshold: 140}, false},
		{"volume met", Achievement{Type: AchievementVolumeTotal, Threshold: 5000}, true},
		{"volume not met", Achievement{Type: AchievementVolumeTotal, Threshold: 50000}, false},
		{"streak met", Achievement{Type: AchievementStreak, Threshold: 3}, true},
		{"streak not met", Achievement{Type: AchievementStreak, Threshold: 4}, false},
		{"unknown type fails closed", Achievement{Type: "marathon", Threshold: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.achievement.UnlockedBy(stats); got != tt.want {
				t.Errorf("UnlockedBy() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil stats never unlocks", func(t *testing.T) {
		a := Achievement{Type: AchievementCount, Threshold: 0}
		if a.UnlockedBy(nil) {
			t.Error("nil stats should not unlock anything")
		}
	})
}
