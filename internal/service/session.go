package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/pkg/dates"

	"github.com/google/uuid"
)

// MaxSessionsPerDay caps how many sessions can earn entries on one date.
const MaxSessionsPerDay = 4

// SessionService records completed focus sessions: enforces the daily cap,
// persists the session, awards ledger entries and drives the streak tracker.
type SessionService struct {
	repo    SessionRepository
	ledger  EntryAwarder
	streaks StreakToucher
	clock   dates.Clock

	// Per-student locks close the count-then-insert window of the daily cap
	// within this process. Across processes the cap is best-effort.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionService(repo SessionRepository, ledger EntryAwarder, streaks StreakToucher, clock dates.Clock) *SessionService {
	return &SessionService{
		repo:    repo,
		ledger:  ledger,
		streaks: streaks,
		clock:   clock,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *SessionService) studentLock(uid string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[uid]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[uid] = lock
	}
	return lock
}

// Record validates and stores a completed session. Rejections
// (ErrInvalidDuration, ErrInvalidQuality, ErrDailyLimitReached) award
// nothing and persist nothing.
func (s *SessionService) Record(ctx context.Context, studentUID string, durationMinutes int, quality model.FocusQuality, questID *string) (*model.FocusSession, error) {
	if durationMinutes != model.ShortSessionMinutes && durationMinutes != model.LongSessionMinutes {
		return nil, ErrInvalidDuration
	}
	if !quality.Valid() {
		return nil, ErrInvalidQuality
	}

	if _, err := s.repo.GetStudent(ctx, studentUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	lock := s.studentLock(studentUID)
	lock.Lock()
	defer lock.Unlock()

	today := dates.Today(s.clock)

	count, err := s.repo.CountSessions(ctx, studentUID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's sessions: %w", err)
	}
	if count >= MaxSessionsPerDay {
		return nil, ErrDailyLimitReached
	}

	entriesEarned := 1
	if durationMinutes == model.LongSessionMinutes {
		entriesEarned = 2
	}

	now := s.clock.Now()
	session := &model.FocusSession{
		ID:              uuid.New(),
		StudentUID:      studentUID,
		QuestID:         questID,
		Date:            today,
		DurationMinutes: durationMinutes,
		Quality:         quality,
		EntriesEarned:   entriesEarned,
		StartedAt:       now.Add(-time.Duration(durationMinutes) * time.Minute),
		CompletedAt:     now,
		CreatedAt:       now,
	}

	if err := s.repo.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	// Unique-instant key: a retried call gets a fresh sourceID, so this path
	// alone does not dedupe client retries. The ledger still dedupes any
	// stable-sourceID callers.
	sourceID := fmt.Sprintf("session_%s_%d", studentUID, now.UnixMilli())
	if _, err := s.ledger.Award(ctx, studentUID, entriesEarned, model.ReasonFocusSession, sourceID); err != nil {
		return nil, fmt.Errorf("failed to award session entries: %w", err)
	}

	if err := s.repo.AddFocusMinutes(ctx, studentUID, durationMinutes); err != nil {
		return nil, fmt.Errorf("failed to add focus minutes: %w", err)
	}

	if _, err := s.streaks.Touch(ctx, studentUID); err != nil {
		return nil, fmt.Errorf("failed to touch streak: %w", err)
	}

	return session, nil
}

// TodaySessions lists the student's sessions for today, newest first.
func (s *SessionService) TodaySessions(ctx context.Context, studentUID string) ([]*model.FocusSession, error) {
	sessions, err := s.repo.ListSessionsByDate(ctx, studentUID, dates.Today(s.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to list today's sessions: %w", err)
	}
	return sessions, nil
}

// RecentSessions lists the newest sessions across all dates.
func (s *SessionService) RecentSessions(ctx context.Context, studentUID string, limit int) ([]*model.FocusSession, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	sessions, err := s.repo.ListRecentSessions(ctx, studentUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sessions: %w", err)
	}
	return sessions, nil
}
