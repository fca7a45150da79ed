package service

import (
	"context"
	"errors"
	"fmt"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/pkg/dates"
)

// QuestService manages the daily quest selection state machine. A selection
// is locked once made for a date; completion only grows the completed set.
// Quest completion grants no entries in this core.
type QuestService struct {
	repo  QuestRepository
	clock dates.Clock
}

func NewQuestService(repo QuestRepository, clock dates.Clock) *QuestService {
	return &QuestService{
		repo:  repo,
		clock: clock,
	}
}

// Catalog lists the built-in quests students can pick from.
func (s *QuestService) Catalog(ctx context.Context) ([]*model.Quest, error) {
	quests, err := s.repo.ListDefaultQuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quest catalog: %w", err)
	}
	return quests, nil
}

// ChooseQuests records today's quest selection. The create-if-absent key
// (student, date) makes a second call for the same day fail with
// ErrSelectionLocked and leave the original selection unchanged.
func (s *QuestService) ChooseQuests(ctx context.Context, studentUID string, questIDs []string) (*model.DailyQuestAssignment, error) {
	if len(questIDs) == 0 {
		return nil, ErrEmptySelection
	}

	// Set semantics: duplicates in the request collapse.
	unique := make([]string, 0, len(questIDs))
	seen := make(map[string]struct{}, len(questIDs))
	for _, id := range questIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) > model.MaxDailyQuests {
		return nil, ErrTooManyQuests
	}

	if _, err := s.repo.GetStudent(ctx, studentUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	now := s.clock.Now()
	assignment := &model.DailyQuestAssignment{
		StudentUID:        studentUID,
		Date:              dates.DateOf(now),
		QuestIDs:          unique,
		CompletedQuestIDs: []string{},
		CreatedAt:         now,
	}

	created, err := s.repo.CreateAssignment(ctx, assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	if !created {
		return nil, ErrSelectionLocked
	}

	return assignment, nil
}

// CompleteQuest marks a chosen quest done. It is a no-op when no assignment
// exists, the quest was not chosen, or it is already completed; reapplying
// is always safe.
func (s *QuestService) CompleteQuest(ctx context.Context, studentUID, questID string) error {
	today := dates.Today(s.clock)

	_, err := s.repo.GetAssignment(ctx, studentUID, today)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	_, err = s.repo.AppendCompletedQuest(ctx, studentUID, today, questID)
	if err != nil {
		return fmt.Errorf("failed to complete quest: %w", err)
	}

	return nil
}

// TodayAssignment returns today's selection, or ErrNoAssignment when the
// student has not chosen yet.
func (s *QuestService) TodayAssignment(ctx context.Context, studentUID string) (*model.DailyQuestAssignment, error) {
	assignment, err := s.repo.GetAssignment(ctx, studentUID, dates.Today(s.clock))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoAssignment
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return assignment, nil
}
