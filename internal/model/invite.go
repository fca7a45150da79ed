package model

import "time"

// CodeAlphabet is the 32-symbol set invite codes are drawn from. Ambiguous
// glyphs (0/O, 1/I) are excluded.
const (
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 6
	CodeTTL      = 48 * time.Hour
)

// InviteCode links a parent to a child. It mutates exactly once, from unused
// to used, and is terminal afterwards.
type InviteCode struct {
	Code      string
	ParentUID string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedBy    *string
	UsedAt    *time.Time
}

func (c *InviteCode) Used() bool {
	return c.UsedBy != nil
}

func (c *InviteCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
