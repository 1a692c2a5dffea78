// Package profile persists user records: a password hash plus the
// learner's profile and roadmap progress.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/abhisek/careercoach/internal/roadmap"
)

var (
	// ErrExists is returned by Create when the username is taken.
	ErrExists = errors.New("user already exists")

	// ErrNotFound is returned by Put for an unknown username.
	ErrNotFound = errors.New("user not found")
)

// Profile is everything remembered about a learner between sessions.
type Profile struct {
	Role          string           `json:"role"`
	Skills        string           `json:"skills"`
	Goal          string           `json:"goal"`
	SkillsList    string           `json:"skillsList,omitempty"`
	RoadmapText   string           `json:"roadmapText,omitempty"`
	RoadmapSkills []string         `json:"roadmapSkills,omitempty"`
	Progress      roadmap.Progress `json:"progress"`
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	c := p
	c.RoadmapSkills = slices.Clone(p.RoadmapSkills)
	c.Progress = p.Progress.Clone()
	return c
}

// UnmarshalJSON also accepts the snake_case keys written by earlier
// versions of the users file.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var v struct {
		plain
		LegacySkillsList  string `json:"skills_list"`
		LegacyRoadmapText string `json:"roadmap_text"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Profile(v.plain)
	if p.SkillsList == "" {
		p.SkillsList = v.LegacySkillsList
	}
	if p.RoadmapText == "" {
		p.RoadmapText = v.LegacyRoadmapText
	}
	return nil
}

// Record is one entry of the store: credentials plus profile.
type Record struct {
	PasswordHash string  `json:"passwordHash"`
	Profile      Profile `json:"profile"`
}

// UnmarshalJSON also accepts the legacy "password" key.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var v struct {
		plain
		LegacyPassword string `json:"password"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Record(v.plain)
	if r.PasswordHash == "" {
		r.PasswordHash = v.LegacyPassword
	}
	return nil
}

// Store persists user records keyed by username.
type Store interface {
	// Get returns the user's profile, or nil if the user does not exist.
	Get(ctx context.Context, username string) (*Profile, error)

	// Put replaces the profile of an existing user.
	Put(ctx context.Context, username string, p Profile) error

	// Create adds a new user. It fails with ErrExists if the name is taken.
	Create(ctx context.Context, username string, rec Record) error

	// Record returns the full record, or nil if the user does not exist.
	Record(ctx context.Context, username string) (*Record, error)

	// Usernames lists every user, sorted.
	Usernames(ctx context.Context) ([]string, error)

	Close() error
}

// Copy creates every user of src in dst. Users already present in dst are
// skipped and counted.
func Copy(ctx context.Context, dst, src Store) (copied, skipped int, err error) {
	names, err := src.Usernames(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, name := range names {
		rec, err := src.Record(ctx, name)
		if err != nil {
			return copied, skipped, err
		}
		if rec == nil {
			continue
		}
		switch err := dst.Create(ctx, name, *rec); {
		case errors.Is(err, ErrExists):
			skipped++
		case err != nil:
			return copied, skipped, err
		default:
			copied++
		}
	}
	return copied, skipped, nil
}
