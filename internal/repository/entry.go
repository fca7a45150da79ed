package repository

import (
	"context"
	"fmt"
	"time"

	"focusdraw/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type prizeEntry struct {
	ID         uuid.UUID `db:"id"`
	StudentUID string    `db:"student_uid"`
	Count      int       `db:"count"`
	Reason     string    `db:"reason"`
	SourceID   string    `db:"source_id"`
	Date       string    `db:"date"`
	Week       string    `db:"week"`
	CreatedAt  time.Time `db:"created_at"`
}

// InsertEntry appends a ledger line and bumps the student's cached counters
// in the same transaction. The unique index on (student_uid, source_id) plus
// ON CONFLICT DO NOTHING makes the append a create-if-absent: a duplicate
// sourceId resolves to at most one effective award even under concurrent
// retries. Returns false when the entry was a duplicate (counters untouched).
//
// The weekly counter rolls over lazily: when the stored week_key differs from
// the entry's week, the counter restarts at this entry's count.
func (r *Repository) InsertEntry(ctx context.Context, entry *model.PrizeEntry) (bool, error) {
	inserted := false

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("prize_entries").
			SetMap(map[string]interface{}{
				"id":          entry.ID,
				"student_uid": entry.StudentUID,
				"count":       entry.Count,
				"reason":      string(entry.Reason),
				"source_id":   entry.SourceID,
				"date":        entry.Date,
				"week":        entry.Week,
				"created_at":  entry.CreatedAt,
			}).
			Suffix("ON CONFLICT (student_uid, source_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build entry insert query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert prize entry: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			// Duplicate sourceId: resolved as a no-op, not an error.
			return nil
		}
		inserted = true

		updateQuery, updateArgs, err := squirrel.
			Update("students").
			Set("total_entries", squirrel.Expr("total_entries + ?", entry.Count)).
			Set("current_week_entries", squirrel.Expr(
				"CASE WHEN week_key = ? THEN current_week_entries + ? ELSE ? END",
				entry.Week, entry.Count, entry.Count)).
			Set("week_key", entry.Week).
			Where(squirrel.Eq{"uid": entry.StudentUID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build counter update query: %w", err)
		}

		result, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update entry counters: %w", err)
		}

		rows, err = result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return inserted, nil
}

// ListEntries returns the student's ledger lines, newest first.
func (r *Repository) ListEntries(ctx context.Context, studentUID string, limit int) ([]*model.PrizeEntry, error) {
	query, args, err := squirrel.
		Select("id", "student_uid", "count", "reason", "source_id", "date", "week", "created_at").
		From("prize_entries").
		Where(squirrel.Eq{"student_uid": studentUID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*prizeEntry
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prize entries: %w", err)
	}

	entries := make([]*model.PrizeEntry, len(rows))
	for i, e := range rows {
		entries[i] = &model.PrizeEntry{
			ID:         e.ID,
			StudentUID: e.StudentUID,
			Count:      e.Count,
			Reason:     model.EntryReason(e.Reason),
			SourceID:   e.SourceID,
			Date:       e.Date,
			Week:       e.Week,
			CreatedAt:  e.CreatedAt,
		}
	}

	return entries, nil
}

// SumEntries recomputes the all-time total from the ledger.
func (r *Repository) SumEntries(ctx context.Context, studentUID string) (int, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(count), 0)").
		From("prize_entries").
		Where(squirrel.Eq{"student_uid": studentUID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to sum prize entries: %w", err)
	}

	return total, nil
}

// SumEntriesForWeek recomputes the weekly total from the ledger for the given
// ISO week key.
func (r *Repository) SumEntriesForWeek(ctx context.Context, studentUID, weekKey string) (int, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(count), 0)").
		From("prize_entries").
		Where(squirrel.Eq{"student_uid": studentUID, "week": weekKey}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to sum weekly prize entries: %w", err)
	}

	return total, nil
}
