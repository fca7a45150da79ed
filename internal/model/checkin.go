package model

import "time"

// DailyCheckIn is the student's self-reported mood, one per (student, date).
type DailyCheckIn struct {
	StudentUID string
	Date       string
	Mood       int
	CreatedAt  time.Time
}

func ValidMood(mood int) bool {
	return mood >= 1 && mood <= 5
}
