package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"focusdraw/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/lib/pq"
)

//go:embed default_quests.json
var defaultQuestsJSON []byte

type seedQuest struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
	EntriesReward   int    `json:"entries_reward"`
	Emoji           string `json:"emoji"`
}

type quest struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Category        string    `db:"category"`
	DurationMinutes int       `db:"duration_minutes"`
	EntriesReward   int       `db:"entries_reward"`
	Emoji           string    `db:"emoji"`
	IsDefault       bool      `db:"is_default"`
	CreatedAt       time.Time `db:"created_at"`
}

type dailyQuestAssignment struct {
	StudentUID        string         `db:"student_uid"`
	Date              string         `db:"date"`
	QuestIDs          pq.StringArray `db:"quest_ids"`
	CompletedQuestIDs pq.StringArray `db:"completed_quest_ids"`
	CreatedAt         time.Time      `db:"created_at"`
}

// SeedDefaultQuests loads the built-in quest catalog. Reseeding is a no-op
// for quests that already exist.
func (r *Repository) SeedDefaultQuests(ctx context.Context) error {
	var seeds []seedQuest
	if err := json.Unmarshal(defaultQuestsJSON, &seeds); err != nil {
		return fmt.Errorf("failed to decode default quests: %w", err)
	}

	builder := squirrel.
		Insert("quests").
		Columns("id", "title", "description", "category", "duration_minutes", "entries_reward", "emoji", "is_default")

	for _, q := range seeds {
		builder = builder.Values(q.ID, q.Title, q.Description, q.Category, q.DurationMinutes, q.EntriesReward, q.Emoji, true)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build quest seed query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to seed default quests: %w", err)
	}

	return nil
}

func (r *Repository) ListDefaultQuests(ctx context.Context) ([]*model.Quest, error) {
	query, args, err := squirrel.
		Select("*").
		From("quests").
		Where(squirrel.Eq{"is_default": true}).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*quest
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list default quests: %w", err)
	}

	quests := make([]*model.Quest, len(rows))
	for i, q := range rows {
		quests[i] = &model.Quest{
			ID:              q.ID,
			Title:           q.Title,
			Description:     q.Description,
			Category:        q.Category,
			DurationMinutes: q.DurationMinutes,
			EntriesReward:   q.EntriesReward,
			Emoji:           q.Emoji,
			IsDefault:       q.IsDefault,
			CreatedAt:       q.CreatedAt,
		}
	}

	return quests, nil
}

// CreateAssignment stores the day's quest selection, keyed (student, date).
// Create-if-absent: returns false when a selection already exists for that
// day, which is the lock-in rule.
func (r *Repository) CreateAssignment(ctx context.Context, assignment *model.DailyQuestAssignment) (bool, error) {
	query, args, err := squirrel.
		Insert("daily_quest_assignments").
		SetMap(map[string]interface{}{
			"student_uid":         assignment.StudentUID,
			"date":                assignment.Date,
			"quest_ids":           pq.StringArray(assignment.QuestIDs),
			"completed_quest_ids": pq.StringArray{},
			"created_at":          assignment.CreatedAt,
		}).
		Suffix("ON CONFLICT (student_uid, date) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build assignment insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert assignment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *Repository) GetAssignment(ctx context.Context, studentUID, date string) (*model.DailyQuestAssignment, error) {
	query, args, err := squirrel.
		Select("student_uid", "date", "quest_ids", "completed_quest_ids", "created_at").
		From("daily_quest_assignments").
		Where(squirrel.Eq{"student_uid": studentUID, "date": date}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row dailyQuestAssignment
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return &model.DailyQuestAssignment{
		StudentUID:        row.StudentUID,
		Date:              row.Date,
		QuestIDs:          row.QuestIDs,
		CompletedQuestIDs: row.CompletedQuestIDs,
		CreatedAt:         row.CreatedAt,
	}, nil
}

// AppendCompletedQuest adds questID to the completed set with set semantics.
// The WHERE clause only matches when the quest is in the chosen set and not
// yet completed, so reapplying (or racing) the same completion touches zero
// rows and is harmless.
func (r *Repository) AppendCompletedQuest(ctx context.Context, studentUID, date, questID string) (bool, error) {
	query, args, err := squirrel.
		Update("daily_quest_assignments").
		Set("completed_quest_ids", squirrel.Expr("array_append(completed_quest_ids, ?)", questID)).
		Where(squirrel.Eq{"student_uid": studentUID, "date": date}).
		Where(squirrel.Expr("? = ANY(quest_ids)", questID)).
		Where(squirrel.Expr("NOT (? = ANY(completed_quest_ids))", questID)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build completion update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to mark quest completed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
