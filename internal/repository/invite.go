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
	"github.com/jmoiron/sqlx"
)

type inviteCode struct {
	Code      string     `db:"code"`
	ParentUID string     `db:"parent_uid"`
	CreatedAt time.Time  `db:"created_at"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedBy    *string    `db:"used_by"`
	UsedAt    *time.Time `db:"used_at"`
}

// InsertInviteCode stores a freshly generated code. A collision with an
// expired, unused code is reclaimed in place; a collision with a live code
// returns ErrCodeTaken so the caller can generate another.
func (r *Repository) InsertInviteCode(ctx context.Context, code *model.InviteCode) error {
	query, args, err := squirrel.
		Insert("invite_codes").
		SetMap(map[string]interface{}{
			"code":       code.Code,
			"parent_uid": code.ParentUID,
			"created_at": code.CreatedAt,
			"expires_at": code.ExpiresAt,
		}).
		Suffix(`ON CONFLICT (code) DO UPDATE SET
			parent_uid = EXCLUDED.parent_uid,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at,
			used_by = NULL,
			used_at = NULL
		WHERE invite_codes.used_by IS NULL AND invite_codes.expires_at < EXCLUDED.created_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build invite insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert invite code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCodeTaken
	}

	return nil
}

func (r *Repository) GetInviteCode(ctx context.Context, code string) (*model.InviteCode, error) {
	query, args, err := squirrel.
		Select("*").
		From("invite_codes").
		Where(squirrel.Eq{"code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row inviteCode
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invite code: %w", err)
	}

	return &model.InviteCode{
		Code:      row.Code,
		ParentUID: row.ParentUID,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
		UsedBy:    row.UsedBy,
		UsedAt:    row.UsedAt,
	}, nil
}

// RedeemInviteCode marks the code used and links child to parent, all in one
// transaction. The conditional UPDATE on used_by IS NULL closes the race
// between two children redeeming the same code: exactly one wins, the loser
// sees ErrCodeUsed.
func (r *Repository) RedeemInviteCode(ctx context.Context, code string, parentUID string, child *model.StudentProfile, usedAt time.Time) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		markQuery, markArgs, err := squirrel.
			Update("invite_codes").
			SetMap(map[string]interface{}{
				"used_by": child.UID,
				"used_at": usedAt,
			}).
			Where(squirrel.Eq{"code": code}).
			Where("used_by IS NULL").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build code update query: %w", err)
		}

		result, err := tx.ExecContext(ctx, markQuery, markArgs...)
		if err != nil {
			return fmt.Errorf("failed to mark code used: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrCodeUsed
		}

		linkQuery, linkArgs, err := squirrel.
			Insert("parent_child_links").
			SetMap(map[string]interface{}{
				"id":                 uuid.New(),
				"parent_uid":         parentUID,
				"child_uid":          child.UID,
				"child_display_name": child.DisplayName,
				"child_avatar_id":    child.AvatarID,
				"linked_at":          usedAt,
			}).
			Suffix("ON CONFLICT (parent_uid, child_uid) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build link insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, linkQuery, linkArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert parent-child link: %w", err)
		}

		// A second redemption by an already-linked child switches parents.
		childQuery, childArgs, err := squirrel.
			Update("students").
			Set("parent_uid", parentUID).
			Where(squirrel.Eq{"uid": child.UID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build child update query: %w", err)
		}

		_, err = tx.ExecContext(ctx, childQuery, childArgs...)
		if err != nil {
			return fmt.Errorf("failed to set child parent: %w", err)
		}

		return nil
	})
}
