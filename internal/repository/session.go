package repository

import (
	"context"
	"fmt"
	"time"

	"focusdraw/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type focusSession struct {
	ID              uuid.UUID `db:"id"`
	StudentUID      string    `db:"student_uid"`
	QuestID         *string   `db:"quest_id"`
	Date            string    `db:"date"`
	DurationMinutes int       `db:"duration_minutes"`
	Quality         string    `db:"quality"`
	EntriesEarned   int       `db:"entries_earned"`
	StartedAt       time.Time `db:"started_at"`
	CompletedAt     time.Time `db:"completed_at"`
	CreatedAt       time.Time `db:"created_at"`
}

func (s *focusSession) toModel() *model.FocusSession {
	return &model.FocusSession{
		ID:              s.ID,
		StudentUID:      s.StudentUID,
		QuestID:         s.QuestID,
		Date:            s.Date,
		DurationMinutes: s.DurationMinutes,
		Quality:         model.FocusQuality(s.Quality),
		EntriesEarned:   s.EntriesEarned,
		StartedAt:       s.StartedAt,
		CompletedAt:     s.CompletedAt,
		CreatedAt:       s.CreatedAt,
	}
}

func (r *Repository) InsertSession(ctx context.Context, session *model.FocusSession) error {
	query, args, err := squirrel.
		Insert("focus_sessions").
		SetMap(map[string]interface{}{
			"id":               session.ID,
			"student_uid":      session.StudentUID,
			"quest_id":         session.QuestID,
			"date":             session.Date,
			"duration_minutes": session.DurationMinutes,
			"quality":          string(session.Quality),
			"entries_earned":   session.EntriesEarned,
			"started_at":       session.StartedAt,
			"completed_at":     session.CompletedAt,
			"created_at":       session.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert focus session: %w", err)
	}

	return nil
}

// CountSessions counts the student's sessions on one calendar date; the
// daily cap check reads this.
func (r *Repository) CountSessions(ctx context.Context, studentUID, date string) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("focus_sessions").
		Where(squirrel.Eq{"student_uid": studentUID, "date": date}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

func (r *Repository) ListSessionsByDate(ctx context.Context, studentUID, date string) ([]*model.FocusSession, error) {
	query, args, err := squirrel.
		Select("*").
		From("focus_sessions").
		Where(squirrel.Eq{"student_uid": studentUID, "date": date}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*focusSession
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*model.FocusSession, len(rows))
	for i, s := range rows {
		sessions[i] = s.toModel()
	}

	return sessions, nil
}

func (r *Repository) ListRecentSessions(ctx context.Context, studentUID string, limit int) ([]*model.FocusSession, error) {
	query, args, err := squirrel.
		Select("*").
		From("focus_sessions").
		Where(squirrel.Eq{"student_uid": studentUID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*focusSession
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent sessions: %w", err)
	}

	sessions := make([]*model.FocusSession, len(rows))
	for i, s := range rows {
		sessions[i] = s.toModel()
	}

	return sessions, nil
}

// ListSessionsSince returns sessions on or after fromDate, oldest first.
// Feeds the parent dashboard's weekly chart.
func (r *Repository) ListSessionsSince(ctx context.Context, studentUID, fromDate string) ([]*model.FocusSession, error) {
	query, args, err := squirrel.
		Select("*").
		From("focus_sessions").
		Where(squirrel.Eq{"student_uid": studentUID}).
		Where(squirrel.GtOrEq{"date": fromDate}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*focusSession
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions since %s: %w", fromDate, err)
	}

	sessions := make([]*model.FocusSession, len(rows))
	for i, s := range rows {
		sessions[i] = s.toModel()
	}

	return sessions, nil
}
