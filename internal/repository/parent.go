package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focusdraw/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type parent struct {
	UID                  string    `db:"uid"`
	DisplayName          string    `db:"display_name"`
	Plan                 string    `db:"plan"`
	NotificationsEnabled bool      `db:"notifications_enabled"`
	WeeklyReportEnabled  bool      `db:"weekly_report_enabled"`
	CreatedAt            time.Time `db:"created_at"`
}

type parentChildLink struct {
	ID               uuid.UUID `db:"id"`
	ParentUID        string    `db:"parent_uid"`
	ChildUID         string    `db:"child_uid"`
	ChildDisplayName string    `db:"child_display_name"`
	ChildAvatarID    string    `db:"child_avatar_id"`
	LinkedAt         time.Time `db:"linked_at"`
}

func (r *Repository) CreateParent(ctx context.Context, profile *model.ParentProfile) error {
	query, args, err := squirrel.
		Insert("parents").
		SetMap(map[string]interface{}{
			"uid":          profile.UID,
			"display_name": profile.DisplayName,
			"plan":         string(profile.Plan),
			"created_at":   profile.CreatedAt,
		}).
		Suffix("ON CONFLICT (uid) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build parent insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert parent: %w", err)
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

func (r *Repository) GetParent(ctx context.Context, uid string) (*model.ParentProfile, error) {
	var row parent
	query, args, err := squirrel.
		Select("*").
		From("parents").
		Where(squirrel.Eq{"uid": uid}).
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

	return &model.ParentProfile{
		UID:                  row.UID,
		DisplayName:          row.DisplayName,
		Plan:                 model.PlanTier(row.Plan),
		NotificationsEnabled: row.NotificationsEnabled,
		WeeklyReportEnabled:  row.WeeklyReportEnabled,
		CreatedAt:            row.CreatedAt,
	}, nil
}

func (r *Repository) ListChildLinks(ctx context.Context, parentUID string) ([]*model.ParentChildLink, error) {
	query, args, err := squirrel.
		Select("*").
		From("parent_child_links").
		Where(squirrel.Eq{"parent_uid": parentUID}).
		OrderBy("linked_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*parentChildLink
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list child links: %w", err)
	}

	links := make([]*model.ParentChildLink, len(rows))
	for i, l := range rows {
		links[i] = &model.ParentChildLink{
			ID:               l.ID,
			ParentUID:        l.ParentUID,
			ChildUID:         l.ChildUID,
			ChildDisplayName: l.ChildDisplayName,
			ChildAvatarID:    l.ChildAvatarID,
			LinkedAt:         l.LinkedAt,
		}
	}

	return links, nil
}
