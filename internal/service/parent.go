package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/pkg/dates"
)

// WeeklyChartDays is the window of the parent dashboard's session chart.
const WeeklyChartDays = 7

// ParentService owns parent profiles and the read-only views a parent gets
// over their linked children.
type ParentService struct {
	repo  ParentRepository
	clock dates.Clock
}

func NewParentService(repo ParentRepository, clock dates.Clock) *ParentService {
	return &ParentService{
		repo:  repo,
		clock: clock,
	}
}

// Register creates the parent profile on the starter plan. Re-registering an
// existing UID returns the stored profile unchanged.
func (s *ParentService) Register(ctx context.Context, uid, displayName string) (*model.ParentProfile, error) {
	profile := &model.ParentProfile{
		UID:                  uid,
		DisplayName:          displayName,
		Plan:                 model.PlanExplorer,
		NotificationsEnabled: true,
		WeeklyReportEnabled:  true,
		CreatedAt:            s.clock.Now(),
	}

	err := s.repo.CreateParent(ctx, profile)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return s.Get(ctx, uid)
		}
		return nil, fmt.Errorf("failed to create parent: %w", err)
	}

	return profile, nil
}

func (s *ParentService) Get(ctx context.Context, uid string) (*model.ParentProfile, error) {
	profile, err := s.repo.GetParent(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to get parent: %w", err)
	}
	return profile, nil
}

// Children lists the parent's linked children.
func (s *ParentService) Children(ctx context.Context, parentUID string) ([]*model.ParentChildLink, error) {
	if _, err := s.Get(ctx, parentUID); err != nil {
		return nil, err
	}

	links, err := s.repo.ListChildLinks(ctx, parentUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child links: %w", err)
	}
	return links, nil
}

// Child returns one linked child's profile, or ErrNotLinked when the student
// does not belong to this parent.
func (s *ParentService) Child(ctx context.Context, parentUID, childUID string) (*model.StudentProfile, error) {
	child, err := s.verifyLink(ctx, parentUID, childUID)
	if err != nil {
		return nil, err
	}
	return child, nil
}

// ChildRecentSessions lists a linked child's newest sessions.
func (s *ParentService) ChildRecentSessions(ctx context.Context, parentUID, childUID string, limit int) ([]*model.FocusSession, error) {
	if _, err := s.verifyLink(ctx, parentUID, childUID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	sessions, err := s.repo.ListRecentSessions(ctx, childUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list child sessions: %w", err)
	}
	return sessions, nil
}

// DailySessionStat is one bar of the dashboard chart.
type DailySessionStat struct {
	Date         string
	Sessions     int
	FocusMinutes int
}

// ChildWeeklySessions aggregates the last 7 days of a linked child's sessions
// into per-day stats, oldest day first. Days with no sessions appear with
// zeros.
func (s *ParentService) ChildWeeklySessions(ctx context.Context, parentUID, childUID string) ([]*DailySessionStat, error) {
	if _, err := s.verifyLink(ctx, parentUID, childUID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	from := now.AddDate(0, 0, -(WeeklyChartDays - 1))

	sessions, err := s.repo.ListSessionsSince(ctx, childUID, dates.DateOf(from))
	if err != nil {
		return nil, fmt.Errorf("failed to list child sessions: %w", err)
	}

	byDate := make(map[string]*DailySessionStat, WeeklyChartDays)
	stats := make([]*DailySessionStat, 0, WeeklyChartDays)
	for i := 0; i < WeeklyChartDays; i++ {
		date := dates.DateOf(from.Add(time.Duration(i) * 24 * time.Hour))
		stat := &DailySessionStat{Date: date}
		byDate[date] = stat
		stats = append(stats, stat)
	}

	for _, session := range sessions {
		stat, ok := byDate[session.Date]
		if !ok {
			continue
		}
		stat.Sessions++
		stat.FocusMinutes += session.DurationMinutes
	}

	return stats, nil
}

// ChildEntries lists a linked child's prize entry ledger, newest first.
func (s *ParentService) ChildEntries(ctx context.Context, parentUID, childUID string, limit int) ([]*model.PrizeEntry, error) {
	if _, err := s.verifyLink(ctx, parentUID, childUID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.repo.ListEntries(ctx, childUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list child entries: %w", err)
	}
	return entries, nil
}

func (s *ParentService) verifyLink(ctx context.Context, parentUID, childUID string) (*model.StudentProfile, error) {
	if _, err := s.Get(ctx, parentUID); err != nil {
		return nil, err
	}

	child, err := s.repo.GetStudent(ctx, childUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child.ParentUID == nil || *child.ParentUID != parentUID {
		return nil, ErrNotLinked
	}

	return child, nil
}
