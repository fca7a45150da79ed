package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestInviteService_Issue(t *testing.T) {
	parent := &model.ParentProfile{UID: "p1"}

	t.Run("issues a well-formed code", func(t *testing.T) {
		mockRepo := &mocks.MockInviteRepository{}
		mockRepo.On("GetParent", mock.Anything, "p1").Return(parent, nil)
		mockRepo.On("InsertInviteCode", mock.Anything, mock.MatchedBy(func(c *model.InviteCode) bool {
			if len(c.Code) != model.CodeLength {
				return false
			}
			for _, r := range c.Code {
				if !strings.ContainsRune(model.CodeAlphabet, r) {
					return false
				}
			}
			return c.ParentUID == "p1" && c.ExpiresAt.Sub(c.CreatedAt) == model.CodeTTL
		})).Return(nil)

		service := NewInviteService(mockRepo, testClock)
		invite, err := service.Issue(context.Background(), "p1")

		assert.NoError(t, err)
		assert.NotNil(t, invite)
		assert.False(t, invite.Used())
		mockRepo.AssertExpectations(t)
	})

	t.Run("retries on collision", func(t *testing.T) {
		mockRepo := &mocks.MockInviteRepository{}
		mockRepo.On("GetParent", mock.Anything, "p1").Return(parent, nil)
		mockRepo.On("InsertInviteCode", mock.Anything, mock.Anything).
			Return(repository.ErrCodeTaken).Twice()
		mockRepo.On("InsertInviteCode", mock.Anything, mock.Anything).Return(nil).Once()

		service := NewInviteService(mockRepo, testClock)
		invite, err := service.Issue(context.Background(), "p1")

		assert.NoError(t, err)
		assert.NotNil(t, invite)
		mockRepo.AssertExpectations(t)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		mockRepo := &mocks.MockInviteRepository{}
		mockRepo.On("GetParent", mock.Anything, "p1").Return(parent, nil)
		mockRepo.On("InsertInviteCode", mock.Anything, mock.Anything).
			Return(repository.ErrCodeTaken)

		service := NewInviteService(mockRepo, testClock)
		_, err := service.Issue(context.Background(), "p1")

		assert.Error(t, err)
	})

	t.Run("unknown parent rejected", func(t *testing.T) {
		mockRepo := &mocks.MockInviteRepository{}
		mockRepo.On("GetParent", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

		service := NewInviteService(mockRepo, testClock)
		_, err := service.Issue(context.Background(), "ghost")

		assert.ErrorIs(t, err, ErrParentNotFound)
	})
}

func TestInviteService_Redeem(t *testing.T) {
	now := testClock.Now()
	child := &model.StudentProfile{UID: "c1"}

	liveInvite := func() *model.InviteCode {
		return &model.InviteCode{
			Code:      "ABC234",
			ParentUID: "p1",
			CreatedAt: now.Add(-time.Hour),
			ExpiresAt: now.Add(47 * time.Hour),
		}
	}

	tests := []struct {
		name          string
		rawCode       string
		mockSetup     func(repo *mocks.MockInviteRepository)
		expectedError error
	}{
		{
			name:    "valid code links the child",
			rawCode: "ABC234",
			mockSetup: func(repo *mocks.MockInviteRepository) {
				repo.On("GetInviteCode", mock.Anything, "ABC234").Return(liveInvite(), nil)
				repo.On("GetStudent", mock.Anything, "c1").Return(child, nil)
				repo.On("RedeemInviteCode", mock.Anything, "ABC234", "p1", child, now).Return(nil)
			},
		},
		{
			name:    "lowercase input is normalized",
			rawCode: "  abc234 ",
			mockSetup: func(repo *mocks.MockInviteRepository) {
				repo.On("GetInviteCode", mock.Anything, "ABC234").Return(liveInvite(), nil)
				repo.On("GetStudent", mock.Anything, "c1").Return(child, nil)
				repo.On("RedeemInviteCode", mock.Anything, "ABC234", "p1", child, now).Return(nil)
			},
		},
		{
			name:    "unknown code",
			rawCode: "ZZZZZZ",
			mockSetup: func(repo *mocks.MockInviteRepository) {
				repo.On("GetInviteCode", mock.Anything, "ZZZZZZ").
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrCodeNotFound,
		},
		{
			name:          "wrong length short-circuits the lookup",
			rawCode:       "AB",
			mockSetup:     func(repo *mocks.MockInviteRepository) {},
			expectedError: ErrCodeNotFound,
		},
		{
			name:    "used code is terminal",
			rawCode: "ABC234",
			mockSetup: func(repo *mocks.MockInviteRepository) {
				invite := liveInvite()
				usedBy := "other_child"
				usedAt := now.Add(-30 * time.Minute)
				invite.UsedBy = &usedBy
				invite.UsedAt = &usedAt
				repo.On("GetInviteCode", mock.Anything, "ABC234").Return(invite, nil)
			},
			expectedError: ErrCodeAlreadyUsed,
		},
		{
			name:    "expired code",
			rawCode: "ABC234",
			mockSetup: func(repo *mocks.MockInviteRepository) {
				invite := liveInvite()
				invite.ExpiresAt = now.Add(-time.Minute)
				repo.On("GetInviteCode", mock.Anything, "ABC234").Return(invite, nil)
			},
			expectedError: ErrCodeExpired,
		},
		{
			name:    "lost race to another redeemer",
			rawCode: "ABC234",
			mockSetup: func(repo *mocks.MockInviteRepository) {
				repo.On("GetInviteCode", mock.Anything, "ABC234").Return(liveInvite(), nil)
				repo.On("GetStudent", mock.Anything, "c1").Return(child, nil)
				repo.On("RedeemInviteCode", mock.Anything, "ABC234", "p1", child, now).
					Return(repository.ErrCodeUsed)
			},
			expectedError: ErrCodeAlreadyUsed,
		},
		{
			name:    "unknown student rejected",
			rawCode: "ABC234",
			mockSetup: func(repo *mocks.MockInviteRepository) {
				repo.On("GetInviteCode", mock.Anything, "ABC234").Return(liveInvite(), nil)
				repo.On("GetStudent", mock.Anything, "c1").Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockInviteRepository{}
			tt.mockSetup(mockRepo)

			service := NewInviteService(mockRepo, testClock)
			invite, err := service.Redeem(context.Background(), "c1", tt.rawCode)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.True(t, invite.Used())
			assert.Equal(t, "c1", *invite.UsedBy)
			mockRepo.AssertExpectations(t)
		})
	}
}
