package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"focusdraw/internal/model"
	"focusdraw/internal/repository"
	"focusdraw/pkg/dates"
	"focusdraw/pkg/logger"

	"go.uber.org/zap"
)

const codeIssueAttempts = 3

// InviteService issues and redeems the single-use codes that link a child to
// a parent account.
type InviteService struct {
	repo  InviteRepository
	clock dates.Clock
}

func NewInviteService(repo InviteRepository, clock dates.Clock) *InviteService {
	return &InviteService{
		repo:  repo,
		clock: clock,
	}
}

// Issue creates a fresh 48-hour code for the parent. A collision with a live
// code is retried with a new random code; dead codes are reclaimed in place.
func (s *InviteService) Issue(ctx context.Context, parentUID string) (*model.InviteCode, error) {
	if _, err := s.repo.GetParent(ctx, parentUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to load parent: %w", err)
	}

	now := s.clock.Now()

	for attempt := 0; attempt < codeIssueAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		invite := &model.InviteCode{
			Code:      code,
			ParentUID: parentUID,
			CreatedAt: now,
			ExpiresAt: now.Add(model.CodeTTL),
		}

		err = s.repo.InsertInviteCode(ctx, invite)
		if err == nil {
			return invite, nil
		}
		if !errors.Is(err, repository.ErrCodeTaken) {
			return nil, fmt.Errorf("failed to store invite code: %w", err)
		}

		logger.Logger().Warn("invite code collision, retrying",
			zap.String("parent_uid", parentUID),
			zap.Int("attempt", attempt+1))
	}

	return nil, fmt.Errorf("failed to find a free invite code after %d attempts", codeIssueAttempts)
}

// Redeem consumes a code on behalf of a student. It links the student to the
// issuing parent; a student can only be linked to one parent, so redeeming
// overwrites any previous link.
func (s *InviteService) Redeem(ctx context.Context, studentUID, rawCode string) (*model.InviteCode, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if len(code) != model.CodeLength {
		return nil, ErrCodeNotFound
	}

	invite, err := s.repo.GetInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to load invite code: %w", err)
	}

	now := s.clock.Now()
	if invite.Used() {
		return nil, ErrCodeAlreadyUsed
	}
	if invite.Expired(now) {
		return nil, ErrCodeExpired
	}

	child, err := s.repo.GetStudent(ctx, studentUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	err = s.repo.RedeemInviteCode(ctx, code, invite.ParentUID, child, now)
	if err != nil {
		if errors.Is(err, repository.ErrCodeUsed) {
			return nil, ErrCodeAlreadyUsed
		}
		return nil, fmt.Errorf("failed to redeem invite code: %w", err)
	}

	invite.UsedBy = &child.UID
	invite.UsedAt = &now

	return invite, nil
}

func randomCode() (string, error) {
	alphabetLen := big.NewInt(int64(len(model.CodeAlphabet)))

	var b strings.Builder
	b.Grow(model.CodeLength)
	for i := 0; i < model.CodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		b.WriteByte(model.CodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
