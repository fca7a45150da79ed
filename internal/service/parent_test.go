package service

import (
	"context"
	"testing"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestParentService_Register(t *testing.T) {
	t.Run("new parent starts on the explorer plan", func(t *testing.T) {
		mockRepo := &mocks.MockParentRepository{}
		mockRepo.On("CreateParent", mock.Anything, mock.MatchedBy(func(p *model.ParentProfile) bool {
			return p.UID == "p1" && p.Plan == model.PlanExplorer && p.NotificationsEnabled
		})).Return(nil)

		service := NewParentService(mockRepo, testClock)
		profile, err := service.Register(context.Background(), "p1", "Sam")

		assert.NoError(t, err)
		assert.Equal(t, model.PlanExplorer, profile.Plan)
		mockRepo.AssertExpectations(t)
	})

	t.Run("re-registering returns the stored profile", func(t *testing.T) {
		existing := &model.ParentProfile{UID: "p1", Plan: model.PlanChampion}
		mockRepo := &mocks.MockParentRepository{}
		mockRepo.On("CreateParent", mock.Anything, mock.Anything).
			Return(repository.ErrAlreadyExists)
		mockRepo.On("GetParent", mock.Anything, "p1").Return(existing, nil)

		service := NewParentService(mockRepo, testClock)
		profile, err := service.Register(context.Background(), "p1", "Sam")

		assert.NoError(t, err)
		assert.Equal(t, existing, profile)
	})
}

func TestParentService_ChildViews(t *testing.T) {
	parent := &model.ParentProfile{UID: "p1"}
	linkedChild := &model.StudentProfile{UID: "c1", ParentUID: strPtr("p1")}
	strangerChild := &model.StudentProfile{UID: "c2", ParentUID: strPtr("p9")}

	t.Run("linked child sessions are visible", func(t *testing.T) {
		mockRepo := &mocks.MockParentRepository{}
		mockRepo.On("GetParent", mock.Anything, "p1").Return(parent, nil)
		mockRepo.On("GetStudent", mock.Anything, "c1").Return(linkedChild, nil)
		mockRepo.On("ListRecentSessions", mock.Anything, "c1", defaultHistoryLimit).
			Return([]*model.FocusSession{{StudentUID: "c1"}}, nil)

		service := NewParentService(mockRepo, testClock)
		sessions, err := service.ChildRecentSessions(context.Background(), "p1", "c1", 0)

		assert.NoError(t, err)
		assert.Len(t, sessions, 1)
	})

	t.Run("unlinked child is rejected", func(t *testing.T) {
		mockRepo := &mocks.MockParentRepository{}
		mockRepo.On("GetParent", mock.Anything, "p1").Return(parent, nil)
		mockRepo.On("GetStudent", mock.Anything, "c2").Return(strangerChild, nil)

		service := NewParentService(mockRepo, testClock)
		_, err := service.ChildRecentSessions(context.Background(), "p1", "c2", 0)

		assert.ErrorIs(t, err, ErrNotLinked)
		mockRepo.AssertNotCalled(t, "ListRecentSessions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("entries view enforces the link too", func(t *testing.T) {
		mockRepo := &mocks.MockParentRepository{}
		mockRepo.On("GetParent", mock.Anything, "p1").Return(parent, nil)
		mockRepo.On("GetStudent", mock.Anything, "c2").Return(strangerChild, nil)

		service := NewParentService(mockRepo, testClock)
		_, err := service.ChildEntries(context.Background(), "p1", "c2", 0)

		assert.ErrorIs(t, err, ErrNotLinked)
	})
}

func TestParentService_ChildWeeklySessions(t *testing.T) {
	// testClock pins today to 2026-03-04, so the chart window is
	// 2026-02-26 through 2026-03-04.
	parent := &model.ParentProfile{UID: "p1"}
	linkedChild := &model.StudentProfile{UID: "c1", ParentUID: strPtr("p1")}

	mockRepo := &mocks.MockParentRepository{}
	mockRepo.On("GetParent", mock.Anything, "p1").Return(parent, nil)
	mockRepo.On("GetStudent", mock.Anything, "c1").Return(linkedChild, nil)
	mockRepo.On("ListSessionsSince", mock.Anything, "c1", "2026-02-26").
		Return([]*model.FocusSession{
			{StudentUID: "c1", Date: "2026-02-27", DurationMinutes: 25},
			{StudentUID: "c1", Date: "2026-02-27", DurationMinutes: 50},
			{StudentUID: "c1", Date: "2026-03-04", DurationMinutes: 25},
		}, nil)

	service := NewParentService(mockRepo, testClock)
	stats, err := service.ChildWeeklySessions(context.Background(), "p1", "c1")

	assert.NoError(t, err)
	assert.Len(t, stats, WeeklyChartDays)

	assert.Equal(t, "2026-02-26", stats[0].Date)
	assert.Equal(t, 0, stats[0].Sessions)

	assert.Equal(t, "2026-02-27", stats[1].Date)
	assert.Equal(t, 2, stats[1].Sessions)
	assert.Equal(t, 75, stats[1].FocusMinutes)

	assert.Equal(t, "2026-03-04", stats[6].Date)
	assert.Equal(t, 1, stats[6].Sessions)
	assert.Equal(t, 25, stats[6].FocusMinutes)
}
