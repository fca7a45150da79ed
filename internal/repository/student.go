package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focusdraw/internal/model"

	"github.com/Masterminds/squirrel"
)

type Student struct {
	UID                string    `db:"uid"`
	DisplayName        string    `db:"display_name"`
	AvatarID           string    `db:"avatar_id"`
	TotalEntries       int       `db:"total_entries"`
	CurrentWeekEntries int       `db:"current_week_entries"`
	WeekKey            string    `db:"week_key"`
	CurrentStreak      int       `db:"current_streak"`
	LongestStreak      int       `db:"longest_streak"`
	TotalFocusMinutes  int       `db:"total_focus_minutes"`
	GraceUsedThisWeek  int       `db:"grace_used_this_week"`
	GraceWeekKey       string    `db:"grace_week_key"`
	LastActiveDate     *string   `db:"last_active_date"`
	ParentUID          *string   `db:"parent_uid"`
	CreatedAt          time.Time `db:"created_at"`
}

func (s *Student) toModel() *model.StudentProfile {
	return &model.StudentProfile{
		UID:                s.UID,
		DisplayName:        s.DisplayName,
		AvatarID:           s.AvatarID,
		TotalEntries:       s.TotalEntries,
		CurrentWeekEntries: s.CurrentWeekEntries,
		WeekKey:            s.WeekKey,
		CurrentStreak:      s.CurrentStreak,
		LongestStreak:      s.LongestStreak,
		TotalFocusMinutes:  s.TotalFocusMinutes,
		GraceUsedThisWeek:  s.GraceUsedThisWeek,
		GraceWeekKey:       s.GraceWeekKey,
		LastActiveDate:     s.LastActiveDate,
		ParentUID:          s.ParentUID,
		CreatedAt:          s.CreatedAt,
	}
}

// CreateStudent inserts the profile if absent. Returns ErrAlreadyExists when
// the uid is taken; registration retries are expected to hit this.
func (r *Repository) CreateStudent(ctx context.Context, student *model.StudentProfile) error {
	query, args, err := squirrel.
		Insert("students").
		SetMap(map[string]interface{}{
			"uid":          student.UID,
			"display_name": student.DisplayName,
			"avatar_id":    student.AvatarID,
			"created_at":   student.CreatedAt,
		}).
		Suffix("ON CONFLICT (uid) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build student insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyExists
	}

	return nil
}

func (r *Repository) GetStudent(ctx context.Context, uid string) (*model.StudentProfile, error) {
	var student Student
	query, args, err := squirrel.
		Select("*").
		From("students").
		Where(squirrel.Eq{"uid": uid}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &student, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return student.toModel(), nil
}

func (r *Repository) UpdateStudentAppearance(ctx context.Context, uid, displayName, avatarID string) error {
	query, args, err := squirrel.
		Update("students").
		SetMap(map[string]interface{}{
			"display_name": displayName,
			"avatar_id":    avatarID,
		}).
		Where(squirrel.Eq{"uid": uid}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// AddFocusMinutes is a field-level atomic increment; concurrent session
// recordings must not lose minutes.
func (r *Repository) AddFocusMinutes(ctx context.Context, uid string, minutes int) error {
	query, args, err := squirrel.
		Update("students").
		Set("total_focus_minutes", squirrel.Expr("total_focus_minutes + ?", minutes)).
		Where(squirrel.Eq{"uid": uid}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateStreak writes the streak fields computed by the tracker. Only streak
// fields are touched so concurrent counter increments are not clobbered.
func (r *Repository) UpdateStreak(ctx context.Context, uid string, currentStreak, longestStreak int, lastActiveDate string, graceUsed int, graceWeekKey string) error {
	query, args, err := squirrel.
		Update("students").
		SetMap(map[string]interface{}{
			"current_streak":       currentStreak,
			"longest_streak":       longestStreak,
			"last_active_date":     lastActiveDate,
			"grace_used_this_week": graceUsed,
			"grace_week_key":       graceWeekKey,
		}).
		Where(squirrel.Eq{"uid": uid}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// SetParent overwrites the child's parent link. Redeeming a second code
// switches parents rather than erroring.
func (r *Repository) SetParent(ctx context.Context, childUID, parentUID string) error {
	query, args, err := squirrel.
		Update("students").
		Set("parent_uid", parentUID).
		Where(squirrel.Eq{"uid": childUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// SetEntryCounters overwrites the cached ledger aggregates. Used by the
// reconciliation routine only; the award path goes through atomic increments.
func (r *Repository) SetEntryCounters(ctx context.Context, uid string, total, weekly int, weekKey string) error {
	query, args, err := squirrel.
		Update("students").
		SetMap(map[string]interface{}{
			"total_entries":        total,
			"current_week_entries": weekly,
			"week_key":             weekKey,
		}).
		Where(squirrel.Eq{"uid": uid}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
