package model

import "time"

// Quest is a catalog item students can pick for the day.
type Quest struct {
	ID              string
	Title           string
	Description     string
	Category        string
	DurationMinutes int
	EntriesReward   int
	Emoji           string
	IsDefault       bool
	CreatedAt       time.Time
}

// MaxDailyQuests caps the size of a day's quest selection.
const MaxDailyQuests = 3

// DailyQuestAssignment is one record per (student, date). The quest
// selection is locked once created; the completed set only grows and is
// always a subset of the selection.
type DailyQuestAssignment struct {
	StudentUID        string
	Date              string
	QuestIDs          []string
	CompletedQuestIDs []string
	CreatedAt         time.Time
}

func (a *DailyQuestAssignment) Chosen(questID string) bool {
	for _, id := range a.QuestIDs {
		if id == questID {
			return true
		}
	}
	return false
}

func (a *DailyQuestAssignment) Completed(questID string) bool {
	for _, id := range a.CompletedQuestIDs {
		if id == questID {
			return true
		}
	}
	return false
}
