// Package mocks holds hand-written testify mocks for the repository
// interfaces the service layer consumes.
package mocks

import (
	"context"
	"time"

	"focusdraw/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockEntryLedgerRepository struct {
	mock.Mock
}

func (m *MockEntryLedgerRepository) InsertEntry(ctx context.Context, entry *model.PrizeEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryLedgerRepository) ListEntries(ctx context.Context, studentUID string, limit int) ([]*model.PrizeEntry, error) {
	args := m.Called(ctx, studentUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PrizeEntry), args.Error(1)
}

func (m *MockEntryLedgerRepository) SumEntries(ctx context.Context, studentUID string) (int, error) {
	args := m.Called(ctx, studentUID)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryLedgerRepository) SumEntriesForWeek(ctx context.Context, studentUID, weekKey string) (int, error) {
	args := m.Called(ctx, studentUID, weekKey)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryLedgerRepository) SetEntryCounters(ctx context.Context, uid string, total, weekly int, weekKey string) error {
	args := m.Called(ctx, uid, total, weekly, weekKey)
	return args.Error(0)
}

type MockEntryAwarder struct {
	mock.Mock
}

func (m *MockEntryAwarder) Award(ctx context.Context, studentUID string, count int, reason model.EntryReason, sourceID string) (bool, error) {
	args := m.Called(ctx, studentUID, count, reason, sourceID)
	return args.Bool(0), args.Error(1)
}

type MockStreakToucher struct {
	mock.Mock
}

func (m *MockStreakToucher) Touch(ctx context.Context, studentUID string) (int, error) {
	args := m.Called(ctx, studentUID)
	return args.Int(0), args.Error(1)
}

type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudentProfile), args.Error(1)
}

func (m *MockStreakRepository) UpdateStreak(ctx context.Context, uid string, currentStreak, longestStreak int, lastActiveDate string, graceUsed int, graceWeekKey string) error {
	args := m.Called(ctx, uid, currentStreak, longestStreak, lastActiveDate, graceUsed, graceWeekKey)
	return args.Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudentProfile), args.Error(1)
}

func (m *MockSessionRepository) CountSessions(ctx context.Context, studentUID, date string) (int, error) {
	args := m.Called(ctx, studentUID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepository) InsertSession(ctx context.Context, session *model.FocusSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) AddFocusMinutes(ctx context.Context, uid string, minutes int) error {
	args := m.Called(ctx, uid, minutes)
	return args.Error(0)
}

func (m *MockSessionRepository) ListSessionsByDate(ctx context.Context, studentUID, date string) ([]*model.FocusSession, error) {
	args := m.Called(ctx, studentUID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FocusSession), args.Error(1)
}

func (m *MockSessionRepository) ListRecentSessions(ctx context.Context, studentUID string, limit int) ([]*model.FocusSession, error) {
	args := m.Called(ctx, studentUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FocusSession), args.Error(1)
}

type MockQuestRepository struct {
	mock.Mock
}

func (m *MockQuestRepository) GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudentProfile), args.Error(1)
}

func (m *MockQuestRepository) ListDefaultQuests(ctx context.Context) ([]*model.Quest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Quest), args.Error(1)
}

func (m *MockQuestRepository) CreateAssignment(ctx context.Context, assignment *model.DailyQuestAssignment) (bool, error) {
	args := m.Called(ctx, assignment)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestRepository) GetAssignment(ctx context.Context, studentUID, date string) (*model.DailyQuestAssignment, error) {
	args := m.Called(ctx, studentUID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyQuestAssignment), args.Error(1)
}

func (m *MockQuestRepository) AppendCompletedQuest(ctx context.Context, studentUID, date, questID string) (bool, error) {
	args := m.Called(ctx, studentUID, date, questID)
	return args.Bool(0), args.Error(1)
}

type MockBoostRepository struct {
	mock.Mock
}

func (m *MockBoostRepository) GetParent(ctx context.Context, uid string) (*model.ParentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentProfile), args.Error(1)
}

func (m *MockBoostRepository) GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudentProfile), args.Error(1)
}

func (m *MockBoostRepository) CountBoostsForWeek(ctx context.Context, parentUID, childUID, weekKey string) (int, error) {
	args := m.Called(ctx, parentUID, childUID, weekKey)
	return args.Int(0), args.Error(1)
}

func (m *MockBoostRepository) InsertBoost(ctx context.Context, boost *model.ParentBoost) error {
	args := m.Called(ctx, boost)
	return args.Error(0)
}

func (m *MockBoostRepository) ListBoosts(ctx context.Context, parentUID, childUID string, limit int) ([]*model.ParentBoost, error) {
	args := m.Called(ctx, parentUID, childUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ParentBoost), args.Error(1)
}

type MockInviteRepository struct {
	mock.Mock
}

func (m *MockInviteRepository) GetParent(ctx context.Context, uid string) (*model.ParentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentProfile), args.Error(1)
}

func (m *MockInviteRepository) GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudentProfile), args.Error(1)
}

func (m *MockInviteRepository) InsertInviteCode(ctx context.Context, code *model.InviteCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockInviteRepository) GetInviteCode(ctx context.Context, code string) (*model.InviteCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InviteCode), args.Error(1)
}

func (m *MockInviteRepository) RedeemInviteCode(ctx context.Context, code string, parentUID string, child *model.StudentProfile, usedAt time.Time) error {
	args := m.Called(ctx, code, parentUID, child, usedAt)
	return args.Error(0)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) CreateStudent(ctx context.Context, student *model.StudentProfile) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudentProfile), args.Error(1)
}

func (m *MockStudentRepository) UpdateStudentAppearance(ctx context.Context, uid, displayName, avatarID string) error {
	args := m.Called(ctx, uid, displayName, avatarID)
	return args.Error(0)
}

func (m *MockStudentRepository) UpsertCheckIn(ctx context.Context, checkIn *model.DailyCheckIn) error {
	args := m.Called(ctx, checkIn)
	return args.Error(0)
}

func (m *MockStudentRepository) GetCheckIn(ctx context.Context, studentUID, date string) (*model.DailyCheckIn, error) {
	args := m.Called(ctx, studentUID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyCheckIn), args.Error(1)
}

type MockParentRepository struct {
	mock.Mock
}

func (m *MockParentRepository) CreateParent(ctx context.Context, profile *model.ParentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockParentRepository) GetParent(ctx context.Context, uid string) (*model.ParentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParentProfile), args.Error(1)
}

func (m *MockParentRepository) ListChildLinks(ctx context.Context, parentUID string) ([]*model.ParentChildLink, error) {
	args := m.Called(ctx, parentUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ParentChildLink), args.Error(1)
}

func (m *MockParentRepository) GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StudentProfile), args.Error(1)
}

func (m *MockParentRepository) ListRecentSessions(ctx context.Context, studentUID string, limit int) ([]*model.FocusSession, error) {
	args := m.Called(ctx, studentUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FocusSession), args.Error(1)
}

func (m *MockParentRepository) ListSessionsSince(ctx context.Context, studentUID, fromDate string) ([]*model.FocusSession, error) {
	args := m.Called(ctx, studentUID, fromDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FocusSession), args.Error(1)
}

func (m *MockParentRepository) ListEntries(ctx context.Context, studentUID string, limit int) ([]*model.PrizeEntry, error) {
	args := m.Called(ctx, studentUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PrizeEntry), args.Error(1)
}
