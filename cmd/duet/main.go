package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/duet-dating/duet/internal/bankverify"
	"github.com/duet-dating/duet/internal/config"
	"github.com/duet-dating/duet/internal/database"
	"github.com/duet-dating/duet/internal/database/repository"
	"github.com/duet-dating/duet/internal/secrets"
	"github.com/duet-dating/duet/internal/service"
	"github.com/duet-dating/duet/internal/tui"
	"github.com/duet-dating/duet/internal/verify"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db, cfg.User.ID); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	profileRepo := repository.NewProfileRepo(db)
	decisionRepo := repository.NewDecisionRepo(db)
	interestRepo := repository.NewInterestRepo(db)
	moderationRepo := repository.NewModerationRepo(db)
	prefRepo := repository.NewPreferenceRepo(db)

	verifyClient := verify.NewClient(cfg.Verify.BaseURL, time.Duration(cfg.Verify.TimeoutS)*time.Second)
	bankClient := bankverify.NewClient(cfg.Bank.BaseURL, resolveBankKey(cfg), 15*time.Second)

	// services
	deck := &service.DeckService{
		DB:          db,
		Profiles:    profileRepo,
		Decisions:   decisionRepo,
		Preferences: prefRepo,
		Interests:   interestRepo,
		UserID:      cfg.User.ID,
	}
	moderation := &service.ModerationService{
		Moderation: moderationRepo,
		Decisions:  decisionRepo,
		UserID:     cfg.User.ID,
	}
	verification := &service.VerificationService{
		Profiles: profileRepo,
		Client:   verifyClient,
		UserID:   cfg.User.ID,
	}
	kyc := &service.KYCService{Client: bankClient}

	p := tea.NewProgram(tui.New(ctx, cfg, tui.Services{
		Deck:         deck,
		Moderation:   moderation,
		Verification: verification,
		KYC:          kyc,
	}), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func resolveBankKey(cfg config.Config) string {
	if env := cfg.Bank.APIKeyEnv; env != "" {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if k, err := secrets.Fetch("bank"); err == nil {
		return k
	}
	return ""
}
