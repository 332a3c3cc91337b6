package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
	"github.com/oklog/ulid/v2"
)

// RecordService maintains per-exercise personal records. Each logged set is
// checked against three independent metrics; a record only ever moves up.
type RecordService struct {
	prRepo   domain.PersonalRecordRepository
	userRepo domain.UserRepository
	notifier domain.Notifier
}

func NewRecordService(
	prRepo domain.PersonalRecordRepository,
	userRepo domain.UserRepository,
	notifier domain.Notifier,
) *RecordService {
	return &RecordService{
		prRepo:   prRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// Calculate1RM estimates a one-rep max from a set using the Epley formula.
// A single rep is already a true 1RM; zero or negative reps estimate nothing.
func Calculate1RM(weight float64, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return round2(weight * (1 + float64(reps)/30))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SyncSetPRs checks one set against the user's records for its exercise and
// overwrites every metric the set strictly beats. Returns the improved
// records. Warmup sets never set records; a missing field only disqualifies
// the metrics that need it, so a weight-only set still counts for max_weight.
func (s *RecordService) SyncSetPRs(ctx context.Context, set *domain.Set) ([]*domain.PersonalRecord, error) {
	if set.IsWarmup || (set.Weight <= 0 && set.Reps <= 0) {
		return nil, nil
	}

	existing, err := s.prRepo.GetByUserAndExercise(ctx, set.UserID, set.ExerciseID)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		metric    string
		value     float64
		secondary *float64
	}
	var candidates []candidate
	if set.Weight > 0 {
		var secondary *float64
		if set.Reps > 0 {
			reps := float64(set.Reps)
			secondary = &reps
		}
		candidates = append(candidates, candidate{domain.MetricMaxWeight, set.Weight, secondary})
	}
	if set.Weight > 0 && set.Reps > 0 {
		weight := set.Weight
		candidates = append(candidates,
			candidate{domain.MetricMax1RM, Calculate1RM(set.Weight, set.Reps), &weight},
			candidate{domain.MetricMaxVolumeSet, set.Weight * float64(set.Reps), nil},
		)
	}

	achievedAt := set.CreatedAt
	if achievedAt.IsZero() {
		achievedAt = time.Now()
	}

	var improved []*domain.PersonalRecord
	for _, c := range candidates {
		// Strictly greater: a tie keeps the older record.
		if prev, ok := existing[c.metric]; ok && c.value <= prev.Value {
			continue
		}

		pr := &domain.PersonalRecord{
			UserID:         set.UserID,
			ExerciseID:     set.ExerciseID,
			Metric:         c.metric,
			Value:          c.value,
			SecondaryValue: c.secondary,
			WorkoutID:      set.WorkoutID,
			SetID:          set.ID,
			AchievedAt:     achievedAt,
		}
		if err := s.prRepo.Save(ctx, pr); err != nil {
			log.Printf("Warning: failed to save %s record for exercise %s: %v", c.metric, set.ExerciseID, err)
			continue
		}
		improved = append(improved, pr)
	}

	if len(improved) > 0 {
		s.notifyRecords(ctx, set.UserID, improved)
	}
	return improved, nil
}

func (s *RecordService) notifyRecords(ctx context.Context, userID string, records []*domain.PersonalRecord) {
	if s.notifier == nil {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Warning: failed to load user %s for record notification: %v", userID, err)
		return
	}
	if !user.IsNotificationEnabled(domain.NotifyPersonalRecord) {
		return
	}

	for _, pr := range records {
		event := &domain.NotificationEvent{
			ID:     ulid.Make().String(),
			UserID: userID,
			Type:   domain.NotifyPersonalRecord,
			Title:  "New personal record!",
			Body:   recordBody(pr),
			Data: map[string]string{
				"exercise_id": pr.ExerciseID,
				"metric":      pr.Metric,
			},
			CreatedAt: time.Now(),
		}
		if err := s.notifier.Notify(ctx, user, event); err != nil {
			log.Printf("Warning: failed to send record notification to user %s: %v", userID, err)
		}
	}
}

func recordBody(pr *domain.PersonalRecord) string {
	switch pr.Metric {
	case domain.MetricMaxWeight:
		return fmt.Sprintf("You lifted a new max weight: %.1f kg", pr.Value)
	case domain.MetricMax1RM:
		return fmt.Sprintf("Your estimated one-rep max climbed to %.1f kg", pr.Value)
	case domain.MetricMaxVolumeSet:
		return fmt.Sprintf("Biggest set yet: %.0f kg of volume", pr.Value)
	default:
		return "You just set a new record"
	}
}
