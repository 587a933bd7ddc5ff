package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/duet-dating/duet/internal/bankverify"
	"github.com/duet-dating/duet/internal/database/repository"
	"github.com/duet-dating/duet/internal/verify"
)

// VerificationService runs the identity verification flow: photo
// acceptance, template enrollment, and liveness checks. The verified flag
// and template live on the profile row.
type VerificationService struct {
	Profiles *repository.ProfileRepo
	Client   *verify.Client
	UserID   string
}

// CheckPhoto uploads a photo from disk and reports whether the service
// accepted it (exactly one sufficiently large, confident face).
func (s *VerificationService) CheckPhoto(ctx context.Context, path string) (verify.Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return verify.Detection{}, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()
	return s.Client.DetectFace(ctx, filepath.Base(path), f)
}

// Enroll creates a face template from the profile's photo URLs and stores
// it. The profile is not marked verified until a liveness check passes.
func (s *VerificationService) Enroll(ctx context.Context, photoURLs []string) error {
	tpl, err := s.Client.CreateTemplate(ctx, photoURLs)
	if err != nil {
		return err
	}
	if !tpl.Success || tpl.Template == "" {
		return fmt.Errorf("enroll: service returned no template")
	}
	return s.Profiles.SetVerified(ctx, s.UserID, false, &tpl.Template)
}

// Liveness matches a live frame against the enrolled template and flips
// the verified flag on success.
func (s *VerificationService) Liveness(ctx context.Context, framePath string) (verify.Liveness, error) {
	p, err := s.Profiles.Get(ctx, s.UserID)
	if err != nil {
		return verify.Liveness{}, err
	}
	if p == nil || p.FaceTemplate == nil {
		return verify.Liveness{}, fmt.Errorf("liveness: no enrolled template, run enrollment first")
	}
	f, err := os.Open(framePath)
	if err != nil {
		return verify.Liveness{}, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()
	res, err := s.Client.VerifyLiveness(ctx, filepath.Base(framePath), f, *p.FaceTemplate)
	if err != nil {
		return verify.Liveness{}, err
	}
	if res.IsMatch {
		if err := s.Profiles.SetVerified(ctx, s.UserID, true, p.FaceTemplate); err != nil {
			return res, err
		}
	}
	return res, nil
}

// KYCService verifies payout bank accounts for event hosts.
type KYCService struct {
	Client *bankverify.Client
}

// LookupBranch resolves an IFSC code.
func (s *KYCService) LookupBranch(ctx context.Context, ifsc string) (bankverify.Branch, error) {
	return s.Client.LookupIFSC(ctx, ifsc)
}

// VerifyAccount runs a penny-drop check.
func (s *KYCService) VerifyAccount(ctx context.Context, account, ifsc, name string) (bankverify.PennyDrop, error) {
	return s.Client.VerifyAccount(ctx, account, ifsc, name)
}
