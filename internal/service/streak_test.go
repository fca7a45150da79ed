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

func strPtr(s string) *string { return &s }

func TestStreakService_Touch(t *testing.T) {
	// testClock pins today to 2026-03-04, yesterday to 2026-03-03, and the
	// week key to 2026-W10.
	tests := []struct {
		name           string
		profile        *model.StudentProfile
		mockSetup      func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder)
		expectedStreak int
		expectedError  error
	}{
		{
			name:    "first ever activity starts at 1",
			profile: &model.StudentProfile{UID: "u1", LastActiveDate: nil},
			mockSetup: func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder) {
				repo.On("UpdateStreak", mock.Anything, "u1", 1, 1, "2026-03-04", 0, "2026-W10").
					Return(nil)
			},
			expectedStreak: 1,
		},
		{
			name: "consecutive day extends",
			profile: &model.StudentProfile{
				UID:            "u1",
				CurrentStreak:  4,
				LongestStreak:  9,
				LastActiveDate: strPtr("2026-03-03"),
			},
			mockSetup: func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder) {
				repo.On("UpdateStreak", mock.Anything, "u1", 5, 9, "2026-03-04", 0, "2026-W10").
					Return(nil)
			},
			expectedStreak: 5,
		},
		{
			name: "same day repeat is a no-op",
			profile: &model.StudentProfile{
				UID:            "u1",
				CurrentStreak:  4,
				LastActiveDate: strPtr("2026-03-04"),
			},
			mockSetup:      func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder) {},
			expectedStreak: 4,
		},
		{
			name: "gap consumes a grace day and extends",
			profile: &model.StudentProfile{
				UID:               "u1",
				CurrentStreak:     6,
				LongestStreak:     6,
				LastActiveDate:    strPtr("2026-03-01"),
				GraceUsedThisWeek: 1,
				GraceWeekKey:      "2026-W10",
			},
			mockSetup: func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder) {
				repo.On("UpdateStreak", mock.Anything, "u1", 7, 7, "2026-03-04", 2, "2026-W10").
					Return(nil)
				ledger.On("Award", mock.Anything, "u1", StreakBonusEntries,
					model.ReasonStreakBonus, "streak_7_2026-03-04").Return(true, nil)
			},
			expectedStreak: 7,
		},
		{
			name: "gap with grace exhausted resets to 1",
			profile: &model.StudentProfile{
				UID:               "u1",
				CurrentStreak:     12,
				LongestStreak:     12,
				LastActiveDate:    strPtr("2026-03-02"),
				GraceUsedThisWeek: 2,
				GraceWeekKey:      "2026-W10",
			},
			mockSetup: func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder) {
				repo.On("UpdateStreak", mock.Anything, "u1", 1, 12, "2026-03-04", 2, "2026-W10").
					Return(nil)
			},
			expectedStreak: 1,
		},
		{
			name: "stale grace week key resets the grace budget",
			profile: &model.StudentProfile{
				UID:               "u1",
				CurrentStreak:     3,
				LongestStreak:     3,
				LastActiveDate:    strPtr("2026-02-27"),
				GraceUsedThisWeek: 2,
				GraceWeekKey:      "2026-W09",
			},
			mockSetup: func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder) {
				repo.On("UpdateStreak", mock.Anything, "u1", 4, 4, "2026-03-04", 1, "2026-W10").
					Return(nil)
			},
			expectedStreak: 4,
		},
		{
			name: "no bonus on day 8",
			profile: &model.StudentProfile{
				UID:            "u1",
				CurrentStreak:  7,
				LongestStreak:  7,
				LastActiveDate: strPtr("2026-03-03"),
			},
			mockSetup: func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder) {
				repo.On("UpdateStreak", mock.Anything, "u1", 8, 8, "2026-03-04", 0, "2026-W10").
					Return(nil)
			},
			expectedStreak: 8,
		},
		{
			name: "bonus on day 14",
			profile: &model.StudentProfile{
				UID:            "u1",
				CurrentStreak:  13,
				LongestStreak:  20,
				LastActiveDate: strPtr("2026-03-03"),
			},
			mockSetup: func(repo *mocks.MockStreakRepository, ledger *mocks.MockEntryAwarder) {
				repo.On("UpdateStreak", mock.Anything, "u1", 14, 20, "2026-03-04", 0, "2026-W10").
					Return(nil)
				ledger.On("Award", mock.Anything, "u1", StreakBonusEntries,
					model.ReasonStreakBonus, "streak_14_2026-03-04").Return(true, nil)
			},
			expectedStreak: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockStreakRepository{}
			mockLedger := &mocks.MockEntryAwarder{}

			mockRepo.On("GetStudent", mock.Anything, "u1").Return(tt.profile, nil)
			tt.mockSetup(mockRepo, mockLedger)

			service := NewStreakService(mockRepo, mockLedger, testClock)
			streak, err := service.Touch(context.Background(), "u1")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStreak, streak)
			mockRepo.AssertExpectations(t)
			mockLedger.AssertExpectations(t)
		})
	}
}

func TestStreakService_Touch_UserNotFound(t *testing.T) {
	mockRepo := &mocks.MockStreakRepository{}
	mockLedger := &mocks.MockEntryAwarder{}
	mockRepo.On("GetStudent", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	service := NewStreakService(mockRepo, mockLedger, testClock)
	_, err := service.Touch(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
