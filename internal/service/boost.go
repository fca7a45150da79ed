package service

import (
	"context"
	"errors"
	"fmt"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/pkg/dates"
	"focusdraw/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BoostService lets parents grant bonus entries to a linked child, at most
// twice per ISO week per (parent, child) pair.
type BoostService struct {
	repo   BoostRepository
	ledger EntryAwarder
	clock  dates.Clock
}

func NewBoostService(repo BoostRepository, ledger EntryAwarder, clock dates.Clock) *BoostService {
	return &BoostService{
		repo:   repo,
		ledger: ledger,
		clock:  clock,
	}
}

// Grant records a boost and awards the entries. The weekly cap counts boost
// records; the ledger independently dedupes awards by (child, sourceID), so
// a second boost on the same day is recorded but pays out nothing extra.
func (s *BoostService) Grant(ctx context.Context, parentUID, childUID string, count int, note string) (*model.ParentBoost, error) {
	if count < 1 || count > model.MaxBoostCount {
		return nil, ErrInvalidCount
	}

	if _, err := s.repo.GetParent(ctx, parentUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to load parent: %w", err)
	}

	child, err := s.repo.GetStudent(ctx, childUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load child: %w", err)
	}
	if child.ParentUID == nil || *child.ParentUID != parentUID {
		return nil, ErrNotLinked
	}

	week := dates.CurrentWeek(s.clock)

	used, err := s.repo.CountBoostsForWeek(ctx, parentUID, childUID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to count this week's boosts: %w", err)
	}
	if used >= model.MaxBoostsPerWeek {
		return nil, ErrWeeklyBoostLimit
	}

	now := s.clock.Now()
	boost := &model.ParentBoost{
		ID:        uuid.New(),
		ParentUID: parentUID,
		ChildUID:  childUID,
		Count:     count,
		Note:      note,
		Date:      dates.DateOf(now),
		Week:      week,
		CreatedAt: now,
	}

	if err := s.repo.InsertBoost(ctx, boost); err != nil {
		return nil, fmt.Errorf("failed to insert boost: %w", err)
	}

	sourceID := fmt.Sprintf("boost_%s_%s", parentUID, boost.Date)
	awarded, err := s.ledger.Award(ctx, childUID, count, model.ReasonParentBoost, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to award boost entries: %w", err)
	}
	if !awarded {
		logger.Logger().Info("boost recorded without award, sourceID already spent today",
			zap.String("parent_uid", parentUID),
			zap.String("child_uid", childUID))
	}

	return boost, nil
}

// CountThisWeek reports how many boosts the pair has used this ISO week.
func (s *BoostService) CountThisWeek(ctx context.Context, parentUID, childUID string) (int, error) {
	used, err := s.repo.CountBoostsForWeek(ctx, parentUID, childUID, dates.CurrentWeek(s.clock))
	if err != nil {
		return 0, fmt.Errorf("failed to count this week's boosts: %w", err)
	}
	return used, nil
}

// History lists the pair's boosts, newest first.
func (s *BoostService) History(ctx context.Context, parentUID, childUID string, limit int) ([]*model.ParentBoost, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	boosts, err := s.repo.ListBoosts(ctx, parentUID, childUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list boosts: %w", err)
	}
	return boosts, nil
}
