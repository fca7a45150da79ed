package service

import (
	"context"
	"fmt"

	"focusdraw/internal/model"
	"focusdraw/pkg/dates"
	"focusdraw/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// EntryLedgerService owns the prize entry ledger. The ledger is append-only
// and is the source of truth; the profile counters it maintains are a
// materialized view that Reconcile can rebuild.
type EntryLedgerService struct {
	repo  EntryLedgerRepository
	clock dates.Clock
}

func NewEntryLedgerService(repo EntryLedgerRepository, clock dates.Clock) *EntryLedgerService {
	return &EntryLedgerService{
		repo:  repo,
		clock: clock,
	}
}

// Award appends a ledger line and bumps the student's counters. Calling it
// twice with the same sourceID yields exactly one entry and one counter
// increment; the duplicate reports awarded=false and no error.
func (s *EntryLedgerService) Award(ctx context.Context, studentUID string, count int, reason model.EntryReason, sourceID string) (bool, error) {
	if count <= 0 {
		return false, ErrInvalidCount
	}
	if !reason.Valid() {
		return false, ErrInvalidReason
	}
	if sourceID == "" {
		return false, fmt.Errorf("sourceID is required")
	}

	now := s.clock.Now()
	entry := &model.PrizeEntry{
		ID:         uuid.New(),
		StudentUID: studentUID,
		Count:      count,
		Reason:     reason,
		SourceID:   sourceID,
		Date:       dates.DateOf(now),
		Week:       dates.WeekKey(now),
		CreatedAt:  now,
	}

	inserted, err := s.repo.InsertEntry(ctx, entry)
	if err != nil {
		return false, fmt.Errorf("failed to award entries: %w", err)
	}

	if !inserted {
		logger.Logger().Info("duplicate award deduped",
			zap.String("student_uid", studentUID),
			zap.String("source_id", sourceID))
	}

	return inserted, nil
}

// History returns the student's ledger lines, newest first.
func (s *EntryLedgerService) History(ctx context.Context, studentUID string, limit int) ([]*model.PrizeEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.repo.ListEntries(ctx, studentUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry history: %w", err)
	}
	return entries, nil
}

// WeeklyTotal recomputes this week's total from the ledger rather than
// trusting the cached counter.
func (s *EntryLedgerService) WeeklyTotal(ctx context.Context, studentUID string) (int, error) {
	total, err := s.repo.SumEntriesForWeek(ctx, studentUID, dates.CurrentWeek(s.clock))
	if err != nil {
		return 0, fmt.Errorf("failed to compute weekly total: %w", err)
	}
	return total, nil
}

// Reconcile rebuilds the cached profile counters from the ledger. Repair and
// test hook; the award path never needs it.
func (s *EntryLedgerService) Reconcile(ctx context.Context, studentUID string) error {
	total, err := s.repo.SumEntries(ctx, studentUID)
	if err != nil {
		return fmt.Errorf("failed to sum ledger: %w", err)
	}

	week := dates.CurrentWeek(s.clock)
	weekly, err := s.repo.SumEntriesForWeek(ctx, studentUID, week)
	if err != nil {
		return fmt.Errorf("failed to sum weekly ledger: %w", err)
	}

	if err := s.repo.SetEntryCounters(ctx, studentUID, total, weekly, week); err != nil {
		return fmt.Errorf("failed to write reconciled counters: %w", err)
	}

	return nil
}
