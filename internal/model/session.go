package model

import (
	"time"

	"github.com/google/uuid"
)

type FocusQuality string

const (
	QualityFullyFocused  FocusQuality = "fully_focused"
	QualityMostlyFocused FocusQuality = "mostly_focused"
	QualityStruggled     FocusQuality = "struggled"
)

func (q FocusQuality) Valid() bool {
	switch q {
	case QualityFullyFocused, QualityMostlyFocused, QualityStruggled:
		return true
	}
	return false
}

// Session durations form a closed set.
const (
	ShortSessionMinutes = 25
	LongSessionMinutes  = 50
)

// FocusSession is immutable once recorded.
type FocusSession struct {
	ID              uuid.UUID
	StudentUID      string
	QuestID         *string
	Date            string
	DurationMinutes int
	Quality         FocusQuality
	EntriesEarned   int
	StartedAt       time.Time
	CompletedAt     time.Time
	CreatedAt       time.Time
}
