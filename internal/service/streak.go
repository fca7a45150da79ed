package service

import (
	"context"
	"errors"
	"fmt"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/pkg/dates"
)

const (
	// MaxGraceDaysPerWeek caps the forgiven missed days; a hard limit so a
	// streak cannot be kept alive by alternating skip and play days.
	MaxGraceDaysPerWeek = 2

	// StreakBonusInterval and StreakBonusEntries: every 7th consecutive day
	// pays 3 bonus entries.
	StreakBonusInterval = 7
	StreakBonusEntries  = 3
)

// StreakService tracks consecutive-day streaks. Touch is called once per
// student per day that a qualifying engagement event occurs.
type StreakService struct {
	repo   StreakRepository
	ledger EntryAwarder
	clock  dates.Clock
}

func NewStreakService(repo StreakRepository, ledger EntryAwarder, clock dates.Clock) *StreakService {
	return &StreakService{
		repo:   repo,
		ledger: ledger,
		clock:  clock,
	}
}

// Touch advances the streak state machine for today and returns the current
// streak length. Same-day repeats are no-ops. A gap of two or more days
// consumes a grace day when one is left this week, otherwise the streak
// resets to 1.
func (s *StreakService) Touch(ctx context.Context, studentUID string) (int, error) {
	profile, err := s.repo.GetStudent(ctx, studentUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to load profile: %w", err)
	}

	today := dates.Today(s.clock)
	yesterday := dates.Yesterday(s.clock)
	week := dates.CurrentWeek(s.clock)

	// The grace counter is week-scoped; a stale week key means none used yet.
	graceUsed := profile.GraceUsedThisWeek
	if profile.GraceWeekKey != week {
		graceUsed = 0
	}

	if profile.LastActiveDate != nil && *profile.LastActiveDate == today {
		return profile.CurrentStreak, nil
	}

	var newStreak int
	switch {
	case profile.LastActiveDate == nil:
		newStreak = 1
	case *profile.LastActiveDate == yesterday:
		newStreak = profile.CurrentStreak + 1
	default:
		if graceUsed < MaxGraceDaysPerWeek {
			newStreak = profile.CurrentStreak + 1
			graceUsed++
		} else {
			newStreak = 1
		}
	}

	longest := profile.LongestStreak
	if newStreak > longest {
		longest = newStreak
	}

	err = s.repo.UpdateStreak(ctx, studentUID, newStreak, longest, today, graceUsed, week)
	if err != nil {
		return 0, fmt.Errorf("failed to update streak: %w", err)
	}

	if newStreak%StreakBonusInterval == 0 {
		// The sourceID embeds streak length and date, so one milestone pays
		// out at most once even if touch is retried.
		sourceID := fmt.Sprintf("streak_%d_%s", newStreak, today)
		_, err = s.ledger.Award(ctx, studentUID, StreakBonusEntries, model.ReasonStreakBonus, sourceID)
		if err != nil {
			return 0, fmt.Errorf("failed to award streak bonus: %w", err)
		}
	}

	return newStreak, nil
}
