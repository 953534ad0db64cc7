package scheduler

import (
	"math"
	"time"

	"fishing-backend/internal/models"
)

// PassingQuality is the lowest SM-2 quality that counts as a recall.
const PassingQuality = 3

// SM2 is the SuperMemo-2 easiness-factor algorithm on a 0-5 quality scale.
// The depth level is only a display bucket derived from repetitions.
type SM2 struct{}

func (SM2) Name() string { return "sm2" }

func (SM2) Init(f *models.Fish, ladder models.Ladder, now time.Time) {
	initFish(f, ladder, now)
}

func (SM2) Apply(f *models.Fish, ladder models.Ladder, quality int, now time.Time) {
	q := min(max(quality, 0), 5)

	if f.EaseFactor == 0 {
		f.EaseFactor = DefaultEaseFactor
	}

	if q >= PassingQuality {
		switch f.Repetitions {
		case 0:
			f.IntervalDays = 1
		case 1:
			f.IntervalDays = 6
		default:
			f.IntervalDays = int(math.Round(float64(f.IntervalDays) * f.EaseFactor))
		}
		f.Repetitions++

		// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02))
		d := float64(5 - q)
		f.EaseFactor = math.Max(MinEaseFactor, f.EaseFactor+(0.1-d*(0.08+d*0.02)))
	} else {
		f.Repetitions = 0
		f.IntervalDays = 1
		f.EaseFactor = math.Max(MinEaseFactor, f.EaseFactor-0.2)
	}

	f.DepthLevel = ladder.Clamp(depthBucket(f.Repetitions))
	f.UpdatedAt = now
	f.NextReviewAt = now.Add(time.Duration(f.IntervalDays) * 24 * time.Hour)
	f.Refresh(now)
}

// Reschedule keeps the SM-2 interval; only the bucket must fit the ladder.
func (SM2) Reschedule(f *models.Fish, ladder models.Ladder) {
	f.DepthLevel = ladder.Clamp(f.DepthLevel)
}

func depthBucket(repetitions int) int {
	switch {
	case repetitions == 0:
		return 1
	case repetitions < 4:
		return 2
	default:
		return 3
	}
}
