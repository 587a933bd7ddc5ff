package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/duet-dating/duet/internal/database"
	"github.com/duet-dating/duet/internal/database/repository"
)

const localID = "self"

func newTestDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.SeedDefaults(ctx, db, localID))
	return db, ctx
}

func newDeckService(db *sql.DB) *DeckService {
	return &DeckService{
		DB:          db,
		Profiles:    repository.NewProfileRepo(db),
		Decisions:   repository.NewDecisionRepo(db),
		Preferences: repository.NewPreferenceRepo(db),
		Interests:   repository.NewInterestRepo(db),
		UserID:      localID,
	}
}

func TestBuildDeckExcludesSelfAndDecided(t *testing.T) {
	t.Parallel()
	db, ctx := newTestDB(t)
	svc := newDeckService(db)

	deck, err := svc.BuildDeck(ctx)
	require.NoError(t, err)
	require.Len(t, deck, 8)
	for _, p := range deck {
		require.NotEqual(t, localID, p.ID)
		require.NotEmpty(t, p.Interests)
	}

	first := deck[0]
	_, err = svc.RecordDecision(ctx, first.ID, repository.DecisionPass)
	require.NoError(t, err)

	deck, err = svc.BuildDeck(ctx)
	require.NoError(t, err)
	require.Len(t, deck, 7)
	for _, p := range deck {
		require.NotEqual(t, first.ID, p.ID)
	}
}

func TestBuildDeckAppliesPreferences(t *testing.T) {
	t.Parallel()
	db, ctx := newTestDB(t)
	svc := newDeckService(db)

	require.NoError(t, svc.SavePreferences(ctx, repository.Preference{
		MinAge: 25, MaxAge: 28, VerifiedOnly: true,
	}))

	deck, err := svc.BuildDeck(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, deck)
	for _, p := range deck {
		require.True(t, p.Verified, "%s should be verified", p.Name)
		require.GreaterOrEqual(t, p.Age, 25)
		require.LessOrEqual(t, p.Age, 28)
	}

	// narrow to a single interest
	interests := repository.NewInterestRepo(db)
	cooking, err := interests.ByName(ctx, "Cooking")
	require.NoError(t, err)
	require.NotNil(t, cooking)
	require.NoError(t, svc.SavePreferences(ctx, repository.Preference{
		MinAge: 18, MaxAge: 99, InterestID: &cooking.ID,
	}))

	deck, err = svc.BuildDeck(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, deck)
	for _, p := range deck {
		names := make([]string, 0, len(p.Interests))
		for _, i := range p.Interests {
			names = append(names, i.Name)
		}
		require.Contains(t, names, "Cooking")
	}
}

func TestRecordDecisionMutualLikeCreatesMatch(t *testing.T) {
	t.Parallel()
	db, ctx := newTestDB(t)
	svc := newDeckService(db)

	deck, err := svc.BuildDeck(ctx)
	require.NoError(t, err)

	// Ananya's seed data likes the local profile; Arjun's does not.
	byName := map[string]repository.Profile{}
	for _, p := range deck {
		byName[p.Name] = p
	}
	ananya, ok := byName["Ananya"]
	require.True(t, ok)
	arjun, ok := byName["Arjun"]
	require.True(t, ok)

	res, err := svc.RecordDecision(ctx, arjun.ID, repository.DecisionLike)
	require.NoError(t, err)
	require.False(t, res.Matched)

	res, err = svc.RecordDecision(ctx, ananya.ID, repository.DecisionLike)
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.NotEmpty(t, res.MatchID)

	matched, err := svc.MatchedProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "Ananya", matched[0].Name)
}

func TestRecordDecisionRollsBackWhenMatchFails(t *testing.T) {
	t.Parallel()
	db, ctx := newTestDB(t)
	svc := newDeckService(db)

	deck, err := svc.BuildDeck(ctx)
	require.NoError(t, err)
	var ananya repository.Profile
	for _, p := range deck {
		if p.Name == "Ananya" { // likes the local profile, so a match is due
			ananya = p
		}
	}
	require.NotEmpty(t, ananya.ID)

	// sabotage match creation so the final statement of the mutual-like
	// transaction fails
	_, err = db.ExecContext(ctx, "DROP TABLE matches")
	require.NoError(t, err)

	_, err = svc.RecordDecision(ctx, ananya.ID, repository.DecisionLike)
	require.Error(t, err)

	// the decision must roll back with the match, otherwise the pair is
	// stuck: decided profiles never re-enter the deck and the unique
	// decision row blocks a retry from ever matching
	d, err := repository.NewDecisionRepo(db).Get(ctx, localID, ananya.ID)
	require.NoError(t, err)
	require.Nil(t, d)

	deck, err = svc.BuildDeck(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(deck))
	for _, p := range deck {
		ids = append(ids, p.ID)
	}
	require.Contains(t, ids, ananya.ID, "profile stays swipeable after the failure")
}

func TestRecordDecisionPassNeverMatches(t *testing.T) {
	t.Parallel()
	db, ctx := newTestDB(t)
	svc := newDeckService(db)

	deck, err := svc.BuildDeck(ctx)
	require.NoError(t, err)
	for _, p := range deck {
		if p.Name == "Priya" { // likes the local profile
			res, err := svc.RecordDecision(ctx, p.ID, repository.DecisionPass)
			require.NoError(t, err)
			require.False(t, res.Matched)
			return
		}
	}
	t.Fatal("seed profile not found")
}

func TestSuggestInterests(t *testing.T) {
	t.Parallel()
	db, ctx := newTestDB(t)
	svc := newDeckService(db)

	out, err := svc.SuggestInterests(ctx, "co", 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, "Coffee", out[0].Interest.Name)
	require.Equal(t, "Cooking", out[1].Interest.Name)
	require.Zero(t, out[0].Distance)
	require.Zero(t, out[1].Distance)

	// typo still surfaces the intended interest
	out, err = svc.SuggestInterests(ctx, "phtography", 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Photography", out[0].Interest.Name)

	// empty query returns the full taxonomy
	out, err = svc.SuggestInterests(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, out, 15)
}

func TestModerationRemovesFromDeck(t *testing.T) {
	t.Parallel()
	db, ctx := newTestDB(t)
	svc := newDeckService(db)
	mod := &ModerationService{
		Moderation: repository.NewModerationRepo(db),
		Decisions:  repository.NewDecisionRepo(db),
		UserID:     localID,
	}

	deck, err := svc.BuildDeck(ctx)
	require.NoError(t, err)
	require.Len(t, deck, 8)

	require.NoError(t, mod.Block(ctx, deck[0].ID))
	require.NoError(t, mod.Report(ctx, deck[1].ID, ReportReasons[0], "seen on three apps with different names"))

	require.Error(t, mod.Report(ctx, deck[2].ID, "  ", ""))

	deck, err = svc.BuildDeck(ctx)
	require.NoError(t, err)
	require.Len(t, deck, 6)

	reports, err := mod.Moderation.ReportsFor(ctx, deck[0].ID)
	require.NoError(t, err)
	require.Empty(t, reports)
}

func TestBlockTwiceRejected(t *testing.T) {
	t.Parallel()
	db, ctx := newTestDB(t)
	svc := newDeckService(db)
	mod := &ModerationService{
		Moderation: repository.NewModerationRepo(db),
		Decisions:  repository.NewDecisionRepo(db),
		UserID:     localID,
	}

	deck, err := svc.BuildDeck(ctx)
	require.NoError(t, err)
	target := deck[0].ID

	require.NoError(t, mod.Block(ctx, target))

	blocked, err := mod.Moderation.IsBlocked(ctx, localID, target)
	require.NoError(t, err)
	require.True(t, blocked)

	err = mod.Block(ctx, target)
	require.ErrorContains(t, err, "already blocked")
}
