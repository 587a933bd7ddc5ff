package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/duet-dating/duet/internal/database/repository"
)

// ReportReasons is the fixed set offered by the report modal.
var ReportReasons = []string{
	"Fake profile",
	"Inappropriate photos",
	"Harassment",
	"Spam or scam",
	"Underage",
	"Other",
}

// ModerationService handles block and report actions. Both also record a
// pass so the profile leaves the deck on the next reload.
type ModerationService struct {
	Moderation *repository.ModerationRepo
	Decisions  *repository.DecisionRepo
	UserID     string
}

func (s *ModerationService) Block(ctx context.Context, profileID string) error {
	blocked, err := s.Moderation.IsBlocked(ctx, s.UserID, profileID)
	if err != nil {
		return fmt.Errorf("block: %w", err)
	}
	if blocked {
		return fmt.Errorf("block: profile already blocked")
	}
	b := repository.Block{ID: uuid.NewString(), BlockerID: s.UserID, BlockedID: profileID}
	if err := s.Moderation.AddBlock(ctx, b); err != nil {
		return fmt.Errorf("block: %w", err)
	}
	return s.recordPass(ctx, profileID)
}

func (s *ModerationService) Report(ctx context.Context, profileID, reason, detail string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("report reason required")
	}
	rep := repository.Report{
		ID:         uuid.NewString(),
		ReporterID: s.UserID,
		ProfileID:  profileID,
		Reason:     reason,
		Detail:     strings.TrimSpace(detail),
	}
	if err := s.Moderation.AddReport(ctx, rep); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return s.recordPass(ctx, profileID)
}

func (s *ModerationService) recordPass(ctx context.Context, profileID string) error {
	d := repository.Decision{
		ID:        uuid.NewString(),
		ActorID:   s.UserID,
		TargetID:  profileID,
		Direction: repository.DecisionPass,
	}
	return s.Decisions.Insert(ctx, d)
}
