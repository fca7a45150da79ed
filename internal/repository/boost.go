package repository

import (
	"context"
	"fmt"
	"time"

	"focusdraw/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type parentBoost struct {
	ID        uuid.UUID `db:"id"`
	ParentUID string    `db:"parent_uid"`
	ChildUID  string    `db:"child_uid"`
	Count     int       `db:"count"`
	Note      string    `db:"note"`
	Date      string    `db:"date"`
	Week      string    `db:"week"`
	CreatedAt time.Time `db:"created_at"`
}

// CountBoostsForWeek counts boost records for a (parent, child) pair within
// one ISO week; the weekly rate limit reads this.
func (r *Repository) CountBoostsForWeek(ctx context.Context, parentUID, childUID, weekKey string) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("parent_boosts").
		Where(squirrel.Eq{"parent_uid": parentUID, "child_uid": childUID, "week": weekKey}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count boosts: %w", err)
	}

	return count, nil
}

func (r *Repository) InsertBoost(ctx context.Context, boost *model.ParentBoost) error {
	query, args, err := squirrel.
		Insert("parent_boosts").
		SetMap(map[string]interface{}{
			"id":         boost.ID,
			"parent_uid": boost.ParentUID,
			"child_uid":  boost.ChildUID,
			"count":      boost.Count,
			"note":       boost.Note,
			"date":       boost.Date,
			"week":       boost.Week,
			"created_at": boost.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build boost insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert boost: %w", err)
	}

	return nil
}

func (r *Repository) ListBoosts(ctx context.Context, parentUID, childUID string, limit int) ([]*model.ParentBoost, error) {
	query, args, err := squirrel.
		Select("*").
		From("parent_boosts").
		Where(squirrel.Eq{"parent_uid": parentUID, "child_uid": childUID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*parentBoost
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list boosts: %w", err)
	}

	boosts := make([]*model.ParentBoost, len(rows))
	for i, b := range rows {
		boosts[i] = &model.ParentBoost{
			ID:        b.ID,
			ParentUID: b.ParentUID,
			ChildUID:  b.ChildUID,
			Count:     b.Count,
			Note:      b.Note,
			Date:      b.Date,
			Week:      b.Week,
			CreatedAt: b.CreatedAt,
		}
	}

	return boosts, nil
}
