package model

import "time"

// StudentProfile holds the per-student counters the reward core maintains.
// TotalEntries and CurrentWeekEntries are materialized views over the prize
// entry ledger; the ledger is the source of truth and the counters can be
// rebuilt from it.
type StudentProfile struct {
	UID                string
	DisplayName        string
	AvatarID           string
	TotalEntries       int
	CurrentWeekEntries int
	WeekKey            string
	CurrentStreak      int
	LongestStreak      int
	TotalFocusMinutes  int
	GraceUsedThisWeek  int
	GraceWeekKey       string
	LastActiveDate     *string
	ParentUID          *string
	CreatedAt          time.Time
}

// AvatarIDs is the closed set of selectable avatars.
var AvatarIDs = []string{"owl", "fox", "dragon", "cat", "robot", "astronaut"}

func ValidAvatarID(id string) bool {
	for _, a := range AvatarIDs {
		if a == id {
			return true
		}
	}
	return false
}
