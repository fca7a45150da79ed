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

type dailyCheckIn struct {
	StudentUID string    `db:"student_uid"`
	Date       string    `db:"date"`
	Mood       int       `db:"mood"`
	CreatedAt  time.Time `db:"created_at"`
}

// UpsertCheckIn records the day's mood, replacing an earlier one for the
// same day.
func (r *Repository) UpsertCheckIn(ctx context.Context, checkIn *model.DailyCheckIn) error {
	query, args, err := squirrel.
		Insert("daily_check_ins").
		SetMap(map[string]interface{}{
			"student_uid": checkIn.StudentUID,
			"date":        checkIn.Date,
			"mood":        checkIn.Mood,
			"created_at":  checkIn.CreatedAt,
		}).
		Suffix("ON CONFLICT (student_uid, date) DO UPDATE SET mood = EXCLUDED.mood").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build check-in upsert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert check-in: %w", err)
	}

	return nil
}

func (r *Repository) GetCheckIn(ctx context.Context, studentUID, date string) (*model.DailyCheckIn, error) {
	var row dailyCheckIn
	query, args, err := squirrel.
		Select("*").
		From("daily_check_ins").
		Where(squirrel.Eq{"student_uid": studentUID, "date": date}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.DailyCheckIn{
		StudentUID: row.StudentUID,
		Date:       row.Date,
		Mood:       row.Mood,
		CreatedAt:  row.CreatedAt,
	}, nil
}
