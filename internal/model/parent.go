package model

import (
	"time"

	"github.com/google/uuid"
)

type PlanTier string

const (
	PlanExplorer   PlanTier = "explorer"
	PlanAdventurer PlanTier = "adventurer"
	PlanChampion   PlanTier = "champion"
)

type ParentProfile struct {
	UID                  string
	DisplayName          string
	Plan                 PlanTier
	NotificationsEnabled bool
	WeeklyReportEnabled  bool
	CreatedAt            time.Time
}

// ParentChildLink is the weak edge written on invite redemption and read by
// the parent dashboard.
type ParentChildLink struct {
	ID               uuid.UUID
	ParentUID        string
	ChildUID         string
	ChildDisplayName string
	ChildAvatarID    string
	LinkedAt         time.Time
}
