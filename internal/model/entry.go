package model

import (
	"time"

	"github.com/google/uuid"
)

type EntryReason string

const (
	ReasonFocusSession  EntryReason = "focus_session"
	ReasonStreakBonus   EntryReason = "streak_bonus"
	ReasonMonthlyStreak EntryReason = "monthly_streak"
	ReasonParentBoost   EntryReason = "parent_boost"
	ReasonWelcomeBonus  EntryReason = "welcome_bonus"
)

func (r EntryReason) Valid() bool {
	switch r {
	case ReasonFocusSession, ReasonStreakBonus, ReasonMonthlyStreak,
		ReasonParentBoost, ReasonWelcomeBonus:
		return true
	}
	return false
}

// PrizeEntry is an append-only ledger line. SourceID is the idempotency key:
// one real-world event maps to at most one entry per student.
type PrizeEntry struct {
	ID         uuid.UUID
	StudentUID string
	Count      int
	Reason     EntryReason
	SourceID   string
	Date       string
	Week       string
	CreatedAt  time.Time
}
