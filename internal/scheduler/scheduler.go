// Package scheduler decides when a fish is due again after a review.
package scheduler

import (
	"fmt"
	"strings"
	"time"

	"fishing-backend/internal/models"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Policy advances a fish's schedule. Implementations never reject input;
// out-of-range values are clamped.
type Policy interface {
	Name() string
	// Init sets the schedule of a newly created fish.
	Init(f *models.Fish, ladder models.Ladder, now time.Time)
	// Apply records one review with the given quality.
	Apply(f *models.Fish, ladder models.Ladder, quality int, now time.Time)
	// Reschedule re-derives the schedule after the pond's ladder changed.
	Reschedule(f *models.Fish, ladder models.Ladder)
}

// New returns the policy registered under name. An empty name selects the
// ladder policy.
func New(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ladder":
		return Ladder{}, nil
	case "sm2", "sm-2":
		return SM2{}, nil
	default:
		return nil, fmt.Errorf("unknown scheduler policy %q", name)
	}
}

func initFish(f *models.Fish, ladder models.Ladder, now time.Time) {
	f.Repetitions = 0
	f.DepthLevel = 0
	f.IntervalDays = 0
	f.EaseFactor = DefaultEaseFactor
	f.NextReviewAt = now.Add(ladder.At(0))
	f.UpdatedAt = now
	f.Refresh(now)
}
