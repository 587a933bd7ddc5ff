package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/duet-dating/duet/internal/database"
	"github.com/duet-dating/duet/internal/database/repository"
)

// DeckService assembles the candidate deck for the local user and records
// the decisions the swipe engine hands back.
type DeckService struct {
	DB          *sql.DB
	Profiles    *repository.ProfileRepo
	Decisions   *repository.DecisionRepo
	Preferences *repository.PreferenceRepo
	Interests   *repository.InterestRepo
	UserID      string
}

// DecisionResult reports what recording a decision produced.
type DecisionResult struct {
	Matched bool
	MatchID string
}

// BuildDeck lists candidates for the local user, applying stored
// preferences. Profiles already decided on, blocked, or the user's own are
// excluded by the repository query.
func (s *DeckService) BuildDeck(ctx context.Context) ([]repository.Profile, error) {
	pref, err := s.Preferences.Get(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	f := repository.ProfileFilters{
		MinAge:       pref.MinAge,
		MaxAge:       pref.MaxAge,
		VerifiedOnly: pref.VerifiedOnly,
		ExcludeID:    s.UserID,
	}
	if pref.InterestID != nil {
		f.InterestID = *pref.InterestID
	}
	return s.Profiles.Candidates(ctx, f)
}

// RecordDecision persists a like or pass against the target. A like that
// turns out to be mutual creates a match. Decision and match commit in one
// transaction; a failed match creation must not strand the decision, since
// the pair is unique and the profile never re-enters the deck.
func (s *DeckService) RecordDecision(ctx context.Context, targetID, direction string) (DecisionResult, error) {
	d := repository.Decision{
		ID:        uuid.NewString(),
		ActorID:   s.UserID,
		TargetID:  targetID,
		Direction: direction,
	}
	var res DecisionResult
	err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		decisions := s.Decisions.Tx(tx)
		if err := decisions.Insert(ctx, d); err != nil {
			return err
		}
		if direction != repository.DecisionLike {
			return nil
		}
		mutual, err := decisions.Mutual(ctx, s.UserID, targetID)
		if err != nil || !mutual {
			return err
		}
		m := repository.Match{ID: uuid.NewString(), ProfileA: s.UserID, ProfileB: targetID}
		if err := decisions.AddMatch(ctx, m); err != nil {
			return err
		}
		res = DecisionResult{Matched: true, MatchID: m.ID}
		return nil
	})
	if err != nil {
		return DecisionResult{}, err
	}
	return res, nil
}

// MatchedProfiles resolves the user's matches to the counterpart profiles,
// newest match first.
func (s *DeckService) MatchedProfiles(ctx context.Context) ([]repository.Profile, error) {
	matches, err := s.Decisions.MatchesFor(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]repository.Profile, 0, len(matches))
	for _, m := range matches {
		other := m.ProfileA
		if other == s.UserID {
			other = m.ProfileB
		}
		p, err := s.Profiles.Get(ctx, other)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// SavePreferences stores the filter settings used by BuildDeck.
func (s *DeckService) SavePreferences(ctx context.Context, pref repository.Preference) error {
	pref.ProfileID = s.UserID
	return s.Preferences.Upsert(ctx, pref)
}

// InterestSuggestion ranks an interest against a query.
type InterestSuggestion struct {
	Interest repository.Interest
	Distance int
}

// SuggestInterests ranks the taxonomy against a free-text query: exact
// prefix matches first, then by edit distance. An empty query returns the
// whole taxonomy in name order.
func (s *DeckService) SuggestInterests(ctx context.Context, query string, limit int) ([]InterestSuggestion, error) {
	all, err := s.Interests.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]InterestSuggestion, 0, len(all))
	for _, i := range all {
		d := 0
		if q != "" {
			name := strings.ToLower(i.Name)
			d = levenshtein.ComputeDistance(q, name)
			if strings.HasPrefix(name, q) {
				d = 0
			}
		}
		out = append(out, InterestSuggestion{Interest: i, Distance: d})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Distance < out[b].Distance })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
