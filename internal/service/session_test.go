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

func TestSessionService_Record(t *testing.T) {
	profile := &model.StudentProfile{UID: "u1"}

	tests := []struct {
		name            string
		duration        int
		quality         model.FocusQuality
		mockSetup       func(repo *mocks.MockSessionRepository, ledger *mocks.MockEntryAwarder, streaks *mocks.MockStreakToucher)
		expectedEntries int
		expectedError   error
	}{
		{
			name:     "short session earns one entry",
			duration: model.ShortSessionMinutes,
			quality:  model.QualityFullyFocused,
			mockSetup: func(repo *mocks.MockSessionRepository, ledger *mocks.MockEntryAwarder, streaks *mocks.MockStreakToucher) {
				repo.On("GetStudent", mock.Anything, "u1").Return(profile, nil)
				repo.On("CountSessions", mock.Anything, "u1", "2026-03-04").Return(0, nil)
				repo.On("InsertSession", mock.Anything, mock.MatchedBy(func(s *model.FocusSession) bool {
					return s.StudentUID == "u1" &&
						s.Date == "2026-03-04" &&
						s.DurationMinutes == 25 &&
						s.EntriesEarned == 1
				})).Return(nil)
				ledger.On("Award", mock.Anything, "u1", 1, model.ReasonFocusSession, mock.Anything).
					Return(true, nil)
				repo.On("AddFocusMinutes", mock.Anything, "u1", 25).Return(nil)
				streaks.On("Touch", mock.Anything, "u1").Return(1, nil)
			},
			expectedEntries: 1,
		},
		{
			name:     "long session earns two entries",
			duration: model.LongSessionMinutes,
			quality:  model.QualityStruggled,
			mockSetup: func(repo *mocks.MockSessionRepository, ledger *mocks.MockEntryAwarder, streaks *mocks.MockStreakToucher) {
				repo.On("GetStudent", mock.Anything, "u1").Return(profile, nil)
				repo.On("CountSessions", mock.Anything, "u1", "2026-03-04").Return(3, nil)
				repo.On("InsertSession", mock.Anything, mock.Anything).Return(nil)
				ledger.On("Award", mock.Anything, "u1", 2, model.ReasonFocusSession, mock.Anything).
					Return(true, nil)
				repo.On("AddFocusMinutes", mock.Anything, "u1", 50).Return(nil)
				streaks.On("Touch", mock.Anything, "u1").Return(2, nil)
			},
			expectedEntries: 2,
		},
		{
			name:     "fifth session of the day rejected",
			duration: model.ShortSessionMinutes,
			quality:  model.QualityMostlyFocused,
			mockSetup: func(repo *mocks.MockSessionRepository, ledger *mocks.MockEntryAwarder, streaks *mocks.MockStreakToucher) {
				repo.On("GetStudent", mock.Anything, "u1").Return(profile, nil)
				repo.On("CountSessions", mock.Anything, "u1", "2026-03-04").Return(4, nil)
			},
			expectedError: ErrDailyLimitReached,
		},
		{
			name:          "duration outside the closed set rejected",
			duration:      30,
			quality:       model.QualityFullyFocused,
			mockSetup:     func(repo *mocks.MockSessionRepository, ledger *mocks.MockEntryAwarder, streaks *mocks.MockStreakToucher) {},
			expectedError: ErrInvalidDuration,
		},
		{
			name:          "unknown quality rejected",
			duration:      model.ShortSessionMinutes,
			quality:       model.FocusQuality("zen"),
			mockSetup:     func(repo *mocks.MockSessionRepository, ledger *mocks.MockEntryAwarder, streaks *mocks.MockStreakToucher) {},
			expectedError: ErrInvalidQuality,
		},
		{
			name:     "unknown student rejected",
			duration: model.ShortSessionMinutes,
			quality:  model.QualityFullyFocused,
			mockSetup: func(repo *mocks.MockSessionRepository, ledger *mocks.MockEntryAwarder, streaks *mocks.MockStreakToucher) {
				repo.On("GetStudent", mock.Anything, "u1").Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockSessionRepository{}
			mockLedger := &mocks.MockEntryAwarder{}
			mockStreaks := &mocks.MockStreakToucher{}
			tt.mockSetup(mockRepo, mockLedger, mockStreaks)

			service := NewSessionService(mockRepo, mockLedger, mockStreaks, testClock)
			session, err := service.Record(context.Background(), "u1", tt.duration, tt.quality, nil)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
				mockRepo.AssertNotCalled(t, "InsertSession", mock.Anything, mock.Anything)
				mockLedger.AssertNotCalled(t, "Award", mock.Anything, mock.Anything,
					mock.Anything, mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, session)
			assert.Equal(t, tt.expectedEntries, session.EntriesEarned)
			assert.Equal(t, "2026-03-04", session.Date)
			mockRepo.AssertExpectations(t)
			mockLedger.AssertExpectations(t)
			mockStreaks.AssertExpectations(t)
		})
	}
}

func TestSessionService_Record_AttachesQuest(t *testing.T) {
	mockRepo := &mocks.MockSessionRepository{}
	mockLedger := &mocks.MockEntryAwarder{}
	mockStreaks := &mocks.MockStreakToucher{}

	questID := "finish_homework"
	mockRepo.On("GetStudent", mock.Anything, "u1").Return(&model.StudentProfile{UID: "u1"}, nil)
	mockRepo.On("CountSessions", mock.Anything, "u1", "2026-03-04").Return(1, nil)
	mockRepo.On("InsertSession", mock.Anything, mock.MatchedBy(func(s *model.FocusSession) bool {
		return s.QuestID != nil && *s.QuestID == questID
	})).Return(nil)
	mockLedger.On("Award", mock.Anything, "u1", 1, model.ReasonFocusSession, mock.Anything).
		Return(true, nil)
	mockRepo.On("AddFocusMinutes", mock.Anything, "u1", 25).Return(nil)
	mockStreaks.On("Touch", mock.Anything, "u1").Return(3, nil)

	service := NewSessionService(mockRepo, mockLedger, mockStreaks, testClock)
	session, err := service.Record(context.Background(), "u1", 25, model.QualityFullyFocused, &questID)

	assert.NoError(t, err)
	assert.NotNil(t, session.QuestID)
	mockRepo.AssertExpectations(t)
}
