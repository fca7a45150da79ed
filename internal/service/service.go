package service

import (
	"context"
	"errors"
	"time"

	"focusdraw/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrParentNotFound = errors.New("parent not found")
	ErrNotLinked      = errors.New("child is not linked to this parent")

	ErrInvalidDuration = errors.New("duration must be 25 or 50 minutes")
	ErrInvalidQuality  = errors.New("unknown focus quality")
	ErrInvalidMood     = errors.New("mood must be between 1 and 5")
	ErrInvalidAvatar   = errors.New("unknown avatar")
	ErrInvalidCount    = errors.New("count out of range")
	ErrInvalidReason   = errors.New("unknown entry reason")

	ErrDailyLimitReached = errors.New("daily session limit reached")
	ErrWeeklyBoostLimit  = errors.New("weekly boost limit reached")

	ErrTooManyQuests   = errors.New("a daily selection holds at most 3 quests")
	ErrEmptySelection  = errors.New("quest selection is empty")
	ErrSelectionLocked = errors.New("today's quest selection is already locked")
	ErrNoAssignment    = errors.New("no quest assignment for today")

	ErrCodeNotFound    = errors.New("invite code not found")
	ErrCodeAlreadyUsed = errors.New("invite code already used")
	ErrCodeExpired     = errors.New("invite code expired")
)

// EntryAwarder is the ledger surface the other components drive. Award
// reports whether the entry was effective; false means the sourceID was
// already spent and the call deduped to a no-op.
type EntryAwarder interface {
	Award(ctx context.Context, studentUID string, count int, reason model.EntryReason, sourceID string) (bool, error)
}

type StudentServiceI interface {
	Register(ctx context.Context, uid, displayName, avatarID string) (*model.StudentProfile, error)
	Get(ctx context.Context, uid string) (*model.StudentProfile, error)
	UpdateAppearance(ctx context.Context, uid, displayName, avatarID string) (*model.StudentProfile, error)
	CheckIn(ctx context.Context, uid string, mood int) (*model.DailyCheckIn, error)
	TodayCheckIn(ctx context.Context, uid string) (*model.DailyCheckIn, error)
}

type SessionServiceI interface {
	Record(ctx context.Context, studentUID string, durationMinutes int, quality model.FocusQuality, questID *string) (*model.FocusSession, error)
	TodaySessions(ctx context.Context, studentUID string) ([]*model.FocusSession, error)
	RecentSessions(ctx context.Context, studentUID string, limit int) ([]*model.FocusSession, error)
}

type EntryLedgerServiceI interface {
	History(ctx context.Context, studentUID string, limit int) ([]*model.PrizeEntry, error)
	WeeklyTotal(ctx context.Context, studentUID string) (int, error)
}

type QuestServiceI interface {
	Catalog(ctx context.Context) ([]*model.Quest, error)
	ChooseQuests(ctx context.Context, studentUID string, questIDs []string) (*model.DailyQuestAssignment, error)
	CompleteQuest(ctx context.Context, studentUID, questID string) error
	TodayAssignment(ctx context.Context, studentUID string) (*model.DailyQuestAssignment, error)
}

type BoostServiceI interface {
	Grant(ctx context.Context, parentUID, childUID string, count int, note string) (*model.ParentBoost, error)
	CountThisWeek(ctx context.Context, parentUID, childUID string) (int, error)
	History(ctx context.Context, parentUID, childUID string, limit int) ([]*model.ParentBoost, error)
}

type InviteServiceI interface {
	Issue(ctx context.Context, parentUID string) (*model.InviteCode, error)
	Redeem(ctx context.Context, studentUID, rawCode string) (*model.InviteCode, error)
}

type ParentServiceI interface {
	Register(ctx context.Context, uid, displayName string) (*model.ParentProfile, error)
	Get(ctx context.Context, uid string) (*model.ParentProfile, error)
	Children(ctx context.Context, parentUID string) ([]*model.ParentChildLink, error)
	Child(ctx context.Context, parentUID, childUID string) (*model.StudentProfile, error)
	ChildRecentSessions(ctx context.Context, parentUID, childUID string, limit int) ([]*model.FocusSession, error)
	ChildWeeklySessions(ctx context.Context, parentUID, childUID string) ([]*DailySessionStat, error)
	ChildEntries(ctx context.Context, parentUID, childUID string, limit int) ([]*model.PrizeEntry, error)
}

// StreakToucher is consumed by the session recorder.
type StreakToucher interface {
	Touch(ctx context.Context, studentUID string) (int, error)
}

type EntryLedgerRepository interface {
	InsertEntry(ctx context.Context, entry *model.PrizeEntry) (bool, error)
	ListEntries(ctx context.Context, studentUID string, limit int) ([]*model.PrizeEntry, error)
	SumEntries(ctx context.Context, studentUID string) (int, error)
	SumEntriesForWeek(ctx context.Context, studentUID, weekKey string) (int, error)
	SetEntryCounters(ctx context.Context, uid string, total, weekly int, weekKey string) error
}

type StreakRepository interface {
	GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error)
	UpdateStreak(ctx context.Context, uid string, currentStreak, longestStreak int, lastActiveDate string, graceUsed int, graceWeekKey string) error
}

type SessionRepository interface {
	GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error)
	CountSessions(ctx context.Context, studentUID, date string) (int, error)
	InsertSession(ctx context.Context, session *model.FocusSession) error
	AddFocusMinutes(ctx context.Context, uid string, minutes int) error
	ListSessionsByDate(ctx context.Context, studentUID, date string) ([]*model.FocusSession, error)
	ListRecentSessions(ctx context.Context, studentUID string, limit int) ([]*model.FocusSession, error)
}

type QuestRepository interface {
	GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error)
	ListDefaultQuests(ctx context.Context) ([]*model.Quest, error)
	CreateAssignment(ctx context.Context, assignment *model.DailyQuestAssignment) (bool, error)
	GetAssignment(ctx context.Context, studentUID, date string) (*model.DailyQuestAssignment, error)
	AppendCompletedQuest(ctx context.Context, studentUID, date, questID string) (bool, error)
}

type BoostRepository interface {
	GetParent(ctx context.Context, uid string) (*model.ParentProfile, error)
	GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error)
	CountBoostsForWeek(ctx context.Context, parentUID, childUID, weekKey string) (int, error)
	InsertBoost(ctx context.Context, boost *model.ParentBoost) error
	ListBoosts(ctx context.Context, parentUID, childUID string, limit int) ([]*model.ParentBoost, error)
}

type InviteRepository interface {
	GetParent(ctx context.Context, uid string) (*model.ParentProfile, error)
	GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error)
	InsertInviteCode(ctx context.Context, code *model.InviteCode) error
	GetInviteCode(ctx context.Context, code string) (*model.InviteCode, error)
	RedeemInviteCode(ctx context.Context, code string, parentUID string, child *model.StudentProfile, usedAt time.Time) error
}

type StudentRepository interface {
	CreateStudent(ctx context.Context, student *model.StudentProfile) error
	GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error)
	UpdateStudentAppearance(ctx context.Context, uid, displayName, avatarID string) error
	UpsertCheckIn(ctx context.Context, checkIn *model.DailyCheckIn) error
	GetCheckIn(ctx context.Context, studentUID, date string) (*model.DailyCheckIn, error)
}

type ParentRepository interface {
	CreateParent(ctx context.Context, profile *model.ParentProfile) error
	GetParent(ctx context.Context, uid string) (*model.ParentProfile, error)
	ListChildLinks(ctx context.Context, parentUID string) ([]*model.ParentChildLink, error)
	GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error)
	ListRecentSessions(ctx context.Context, studentUID string, limit int) ([]*model.FocusSession, error)
	ListSessionsSince(ctx context.Context, studentUID, fromDate string) ([]*model.FocusSession, error)
	ListEntries(ctx context.Context, studentUID string, limit int) ([]*model.PrizeEntry, error)
}
