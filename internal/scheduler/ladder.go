package scheduler

import (
	"time"

	"fishing-backend/internal/models"
)

// Ladder moves a fish up or down the pond's interval ladder by the review
// quality and schedules the next review at the interval of the new rung.
type Ladder struct{}

func (Ladder) Name() string { return "ladder" }

func (Ladder) Init(f *models.Fish, ladder models.Ladder, now time.Time) {
	initFish(f, ladder, now)
}

func (Ladder) Apply(f *models.Fish, ladder models.Ladder, quality int, now time.Time) {
	// Bound the step first so depth+quality cannot overflow.
	step := min(max(quality, -len(ladder)), len(ladder))
	f.DepthLevel = ladder.Clamp(ladder.Clamp(f.DepthLevel) + step)
	f.Repetitions++
	f.UpdatedAt = now
	f.NextReviewAt = now.Add(ladder.At(f.DepthLevel))
	f.Refresh(now)
}

func (Ladder) Reschedule(f *models.Fish, ladder models.Ladder) {
	f.DepthLevel = ladder.Clamp(f.DepthLevel)
	f.NextReviewAt = f.UpdatedAt.Add(ladder.At(f.DepthLevel))
}
