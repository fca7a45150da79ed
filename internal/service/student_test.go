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

func TestStudentService_Register(t *testing.T) {
	t.Run("new student gets the welcome bonus once", func(t *testing.T) {
		mockRepo := &mocks.MockStudentRepository{}
		mockLedger := &mocks.MockEntryAwarder{}

		mockRepo.On("CreateStudent", mock.Anything, mock.MatchedBy(func(p *model.StudentProfile) bool {
			return p.UID == "u1" && p.DisplayName == "Maya" && p.AvatarID == "fox"
		})).Return(nil)
		mockLedger.On("Award", mock.Anything, "u1", WelcomeBonusEntries,
			model.ReasonWelcomeBonus, "welcome").Return(true, nil)
		mockRepo.On("GetStudent", mock.Anything, "u1").Return(&model.StudentProfile{
			UID:          "u1",
			DisplayName:  "Maya",
			AvatarID:     "fox",
			TotalEntries: WelcomeBonusEntries,
		}, nil)

		service := NewStudentService(mockRepo, mockLedger, testClock)
		profile, err := service.Register(context.Background(), "u1", "Maya", "fox")

		assert.NoError(t, err)
		assert.Equal(t, WelcomeBonusEntries, profile.TotalEntries)
		mockRepo.AssertExpectations(t)
		mockLedger.AssertExpectations(t)
	})

	t.Run("re-registering returns the stored profile without a second bonus", func(t *testing.T) {
		mockRepo := &mocks.MockStudentRepository{}
		mockLedger := &mocks.MockEntryAwarder{}

		existing := &model.StudentProfile{UID: "u1", DisplayName: "Maya", AvatarID: "owl"}
		mockRepo.On("CreateStudent", mock.Anything, mock.Anything).
			Return(repository.ErrAlreadyExists)
		mockRepo.On("GetStudent", mock.Anything, "u1").Return(existing, nil)

		service := NewStudentService(mockRepo, mockLedger, testClock)
		profile, err := service.Register(context.Background(), "u1", "Someone Else", "dragon")

		assert.NoError(t, err)
		assert.Equal(t, existing, profile)
		mockLedger.AssertNotCalled(t, "Award", mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty avatar defaults", func(t *testing.T) {
		mockRepo := &mocks.MockStudentRepository{}
		mockLedger := &mocks.MockEntryAwarder{}

		mockRepo.On("CreateStudent", mock.Anything, mock.MatchedBy(func(p *model.StudentProfile) bool {
			return p.AvatarID == model.AvatarIDs[0]
		})).Return(nil)
		mockLedger.On("Award", mock.Anything, "u1", WelcomeBonusEntries,
			model.ReasonWelcomeBonus, "welcome").Return(true, nil)
		mockRepo.On("GetStudent", mock.Anything, "u1").
			Return(&model.StudentProfile{UID: "u1"}, nil)

		service := NewStudentService(mockRepo, mockLedger, testClock)
		_, err := service.Register(context.Background(), "u1", "Maya", "")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown avatar rejected", func(t *testing.T) {
		mockRepo := &mocks.MockStudentRepository{}
		mockLedger := &mocks.MockEntryAwarder{}

		service := NewStudentService(mockRepo, mockLedger, testClock)
		_, err := service.Register(context.Background(), "u1", "Maya", "unicorn")

		assert.ErrorIs(t, err, ErrInvalidAvatar)
		mockRepo.AssertNotCalled(t, "CreateStudent", mock.Anything, mock.Anything)
	})
}

func TestStudentService_UpdateAppearance(t *testing.T) {
	existing := &model.StudentProfile{UID: "u1", DisplayName: "Maya", AvatarID: "owl"}

	t.Run("changes both fields", func(t *testing.T) {
		mockRepo := &mocks.MockStudentRepository{}
		mockRepo.On("GetStudent", mock.Anything, "u1").Return(existing, nil)
		mockRepo.On("UpdateStudentAppearance", mock.Anything, "u1", "M", "robot").Return(nil)

		service := NewStudentService(mockRepo, &mocks.MockEntryAwarder{}, testClock)
		profile, err := service.UpdateAppearance(context.Background(), "u1", "M", "robot")

		assert.NoError(t, err)
		assert.Equal(t, "M", profile.DisplayName)
		assert.Equal(t, "robot", profile.AvatarID)
	})

	t.Run("empty fields keep current values", func(t *testing.T) {
		mockRepo := &mocks.MockStudentRepository{}
		mockRepo.On("GetStudent", mock.Anything, "u1").
			Return(&model.StudentProfile{UID: "u1", DisplayName: "Maya", AvatarID: "owl"}, nil)
		mockRepo.On("UpdateStudentAppearance", mock.Anything, "u1", "Maya", "owl").Return(nil)

		service := NewStudentService(mockRepo, &mocks.MockEntryAwarder{}, testClock)
		profile, err := service.UpdateAppearance(context.Background(), "u1", "", "")

		assert.NoError(t, err)
		assert.Equal(t, "Maya", profile.DisplayName)
		assert.Equal(t, "owl", profile.AvatarID)
	})

	t.Run("unknown avatar rejected", func(t *testing.T) {
		mockRepo := &mocks.MockStudentRepository{}
		mockRepo.On("GetStudent", mock.Anything, "u1").Return(existing, nil)

		service := NewStudentService(mockRepo, &mocks.MockEntryAwarder{}, testClock)
		_, err := service.UpdateAppearance(context.Background(), "u1", "", "unicorn")

		assert.ErrorIs(t, err, ErrInvalidAvatar)
	})
}

func TestStudentService_CheckIn(t *testing.T) {
	existing := &model.StudentProfile{UID: "u1"}

	tests := []struct {
		name          string
		mood          int
		mockSetup     func(repo *mocks.MockStudentRepository)
		expectedError error
	}{
		{
			name: "valid mood upserts",
			mood: 4,
			mockSetup: func(repo *mocks.MockStudentRepository) {
				repo.On("GetStudent", mock.Anything, "u1").Return(existing, nil)
				repo.On("UpsertCheckIn", mock.Anything, mock.MatchedBy(func(c *model.DailyCheckIn) bool {
					return c.StudentUID == "u1" && c.Date == "2026-03-04" && c.Mood == 4
				})).Return(nil)
			},
		},
		{
			name:          "mood below range rejected",
			mood:          0,
			mockSetup:     func(repo *mocks.MockStudentRepository) {},
			expectedError: ErrInvalidMood,
		},
		{
			name:          "mood above range rejected",
			mood:          6,
			mockSetup:     func(repo *mocks.MockStudentRepository) {},
			expectedError: ErrInvalidMood,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockStudentRepository{}
			tt.mockSetup(mockRepo)

			service := NewStudentService(mockRepo, &mocks.MockEntryAwarder{}, testClock)
			checkIn, err := service.CheckIn(context.Background(), "u1", tt.mood)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.mood, checkIn.Mood)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestStudentService_TodayCheckIn_NoneYet(t *testing.T) {
	mockRepo := &mocks.MockStudentRepository{}
	mockRepo.On("GetCheckIn", mock.Anything, "u1", "2026-03-04").
		Return(nil, repository.ErrNotFound)

	service := NewStudentService(mockRepo, &mocks.MockEntryAwarder{}, testClock)
	checkIn, err := service.TodayCheckIn(context.Background(), "u1")

	assert.NoError(t, err)
	assert.Nil(t, checkIn)
}
