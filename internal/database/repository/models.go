package repository

import "time"

// Profile represents a profile row.
type Profile struct {
	ID           string
	Name         string
	Age          int
	City         string
	Bio          string
	Verified     bool
	FaceTemplate *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Interests    []Interest
}

// Interest represents an interest row.
type Interest struct {
	ID   string
	Name string
}

// Decision directions.
const (
	DecisionLike = "like"
	DecisionPass = "pass"
)

// Decision represents a swipe decision row.
type Decision struct {
	ID        string
	ActorID   string
	TargetID  string
	Direction string
	CreatedAt time.Time
}

// Match represents a mutual like.
type Match struct {
	ID        string
	ProfileA  string
	ProfileB  string
	CreatedAt time.Time
}

// Block represents a block row.
type Block struct {
	ID        string
	BlockerID string
	BlockedID string
	CreatedAt time.Time
}

// Report represents a report row.
type Report struct {
	ID         string
	ReporterID string
	ProfileID  string
	Reason     string
	Detail     string
	CreatedAt  time.Time
}

// Preference represents the dating preferences of one profile.
type Preference struct {
	ProfileID    string
	MinAge       int
	MaxAge       int
	VerifiedOnly bool
	InterestID   *string
	UpdatedAt    time.Time
}
