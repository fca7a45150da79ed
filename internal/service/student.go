package service

import (
	"context"
	"errors"
	"fmt"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/pkg/dates"
	"focusdraw/pkg/logger"

	"go.uber.org/zap"
)

// WelcomeBonusEntries is paid once on first registration.
const WelcomeBonusEntries = 5

// StudentService owns student profiles and daily mood check-ins.
type StudentService struct {
	repo   StudentRepository
	ledger EntryAwarder
	clock  dates.Clock
}

func NewStudentService(repo StudentRepository, ledger EntryAwarder, clock dates.Clock) *StudentService {
	return &StudentService{
		repo:   repo,
		ledger: ledger,
		clock:  clock,
	}
}

// Register creates the profile and pays the welcome bonus. Re-registering an
// existing UID returns the stored profile unchanged; the fixed "welcome"
// sourceID means the bonus can never pay twice even across retries.
func (s *StudentService) Register(ctx context.Context, uid, displayName, avatarID string) (*model.StudentProfile, error) {
	if avatarID == "" {
		avatarID = model.AvatarIDs[0]
	}
	if !model.ValidAvatarID(avatarID) {
		return nil, ErrInvalidAvatar
	}

	now := s.clock.Now()
	profile := &model.StudentProfile{
		UID:         uid,
		DisplayName: displayName,
		AvatarID:    avatarID,
		WeekKey:     dates.WeekKey(now),
		CreatedAt:   now,
	}

	err := s.repo.CreateStudent(ctx, profile)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			logger.Logger().Info("student already registered", zap.String("uid", uid))
			return s.Get(ctx, uid)
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	if _, err := s.ledger.Award(ctx, uid, WelcomeBonusEntries, model.ReasonWelcomeBonus, "welcome"); err != nil {
		return nil, fmt.Errorf("failed to award welcome bonus: %w", err)
	}

	return s.Get(ctx, uid)
}

func (s *StudentService) Get(ctx context.Context, uid string) (*model.StudentProfile, error) {
	profile, err := s.repo.GetStudent(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return profile, nil
}

// UpdateAppearance changes display name and avatar. Empty display name keeps
// the current one.
func (s *StudentService) UpdateAppearance(ctx context.Context, uid, displayName, avatarID string) (*model.StudentProfile, error) {
	profile, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = profile.DisplayName
	}
	if avatarID == "" {
		avatarID = profile.AvatarID
	}
	if !model.ValidAvatarID(avatarID) {
		return nil, ErrInvalidAvatar
	}

	if err := s.repo.UpdateStudentAppearance(ctx, uid, displayName, avatarID); err != nil {
		return nil, fmt.Errorf("failed to update appearance: %w", err)
	}

	profile.DisplayName = displayName
	profile.AvatarID = avatarID
	return profile, nil
}

// CheckIn records today's mood. Checking in again the same day overwrites the
// mood rather than erroring.
func (s *StudentService) CheckIn(ctx context.Context, uid string, mood int) (*model.DailyCheckIn, error) {
	if !model.ValidMood(mood) {
		return nil, ErrInvalidMood
	}

	if _, err := s.Get(ctx, uid); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	checkIn := &model.DailyCheckIn{
		StudentUID: uid,
		Date:       dates.DateOf(now),
		Mood:       mood,
		CreatedAt:  now,
	}

	if err := s.repo.UpsertCheckIn(ctx, checkIn); err != nil {
		return nil, fmt.Errorf("failed to store check-in: %w", err)
	}

	return checkIn, nil
}

// TodayCheckIn returns today's check-in, or nil when the student has not
// checked in yet.
func (s *StudentService) TodayCheckIn(ctx context.Context, uid string) (*model.DailyCheckIn, error) {
	checkIn, err := s.repo.GetCheckIn(ctx, uid, dates.Today(s.clock))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get check-in: %w", err)
	}
	return checkIn, nil
}
