package model

import (
	"time"

	"github.com/google/uuid"
)

// Boost limits.
const (
	MaxBoostCount    = 3
	MaxBoostsPerWeek = 2
)

// ParentBoost is an immutable record of a parent granting bonus entries to a
// linked child.
type ParentBoost struct {
	ID        uuid.UUID
	ParentUID string
	ChildUID  string
	Count     int
	Note      string
	Date      string
	Week      string
	CreatedAt time.Time
}
