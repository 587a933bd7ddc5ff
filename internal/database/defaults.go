package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/duet-dating/duet/internal/database/repository"
)

// seedID derives a stable id from a seed key so repeated startups touch the
// same rows.
func seedID(kind, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+name)).String()
}

// SeedDefaults ensures the interest taxonomy, the local profile and a set
// of demo candidates exist for new databases. It is idempotent and safe to
// run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, localID string) error {
	s := seeder{
		interests: repository.NewInterestRepo(db),
		profiles:  repository.NewProfileRepo(db),
		decisions: repository.NewDecisionRepo(db),
	}
	if err := s.seedInterests(ctx); err != nil {
		return err
	}
	return s.seedProfiles(ctx, localID)
}

// seeder bundles the repos used during seeding.
type seeder struct {
	interests *repository.InterestRepo
	profiles  *repository.ProfileRepo
	decisions *repository.DecisionRepo
}

var defaultInterests = []string{
	"Travel", "Music", "Cooking", "Hiking", "Photography",
	"Reading", "Gaming", "Yoga", "Dancing", "Cricket",
	"Coffee", "Movies", "Running", "Art", "Foodie",
}

func (s seeder) seedInterests(ctx context.Context) error {
	existing, err := s.interests.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	for _, name := range defaultInterests {
		if err := s.interests.Upsert(ctx, repository.Interest{ID: seedID("interest", name), Name: name}); err != nil {
			return err
		}
	}
	return nil
}

type demoProfile struct {
	name      string
	age       int
	city      string
	bio       string
	verified  bool
	interests []string
	likesYou  bool // seeds a like toward the local profile
}

var demoProfiles = []demoProfile{
	{"Ananya", 26, "Bengaluru", "Weekend trekker, weekday product designer.", true, []string{"Hiking", "Photography", "Coffee"}, true},
	{"Rohan", 29, "Mumbai", "Cooks a mean biryani. Looking for a taste tester.", true, []string{"Cooking", "Foodie", "Movies"}, false},
	{"Priya", 24, "Delhi", "Kathak dancer, cat person, chai over coffee.", false, []string{"Dancing", "Art", "Music"}, true},
	{"Arjun", 31, "Pune", "Marathon runner slowing down for the right person.", true, []string{"Running", "Cricket", "Travel"}, false},
	{"Meera", 27, "Chennai", "Bookshelves are my love language.", false, []string{"Reading", "Yoga", "Coffee"}, false},
	{"Kabir", 28, "Hyderabad", "Street photographer. Will take your profile pictures.", true, []string{"Photography", "Gaming", "Music"}, true},
	{"Ishita", 25, "Kolkata", "Film-festival regular with strong samosa opinions.", false, []string{"Movies", "Foodie", "Art"}, false},
	{"Dev", 30, "Goa", "Surf in the morning, code in the afternoon.", true, []string{"Travel", "Gaming", "Running"}, false},
}

func (s seeder) seedProfiles(ctx context.Context, localID string) error {
	if existing, err := s.profiles.Get(ctx, localID); err != nil {
		return err
	} else if existing != nil {
		return nil
	}

	local := repository.Profile{ID: localID, Name: "You", Age: 27, City: "Bengaluru", Bio: "This is you."}
	if err := s.profiles.Upsert(ctx, local); err != nil {
		return err
	}

	for _, d := range demoProfiles {
		id := seedID("profile", d.name)
		p := repository.Profile{ID: id, Name: d.name, Age: d.age, City: d.city, Bio: d.bio, Verified: d.verified}
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return err
		}
		for _, name := range d.interests {
			if err := s.profiles.AttachInterest(ctx, id, seedID("interest", name)); err != nil {
				return err
			}
		}
		if d.likesYou {
			like := repository.Decision{
				ID:        seedID("decision", d.name+"->"+localID),
				ActorID:   id,
				TargetID:  localID,
				Direction: repository.DecisionLike,
			}
			if err := s.decisions.Insert(ctx, like); err != nil {
				return err
			}
		}
	}
	return nil
}
