package scheduler

import (
	"math"
	"testing"
	"time"

	"fishing-backend/internal/models"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "ladder", false},
		{"ladder", "ladder", false},
		{"SM2", "sm2", false},
		{"sm-2", "sm2", false},
		{"fsrs", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := New(tc.name)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tc.want {
				t.Errorf("expected %q, got %q", tc.want, p.Name())
			}
		})
	}
}

func TestInit(t *testing.T) {
	for _, p := range []Policy{Ladder{}, SM2{}} {
		f := &models.Fish{DepthLevel: 3, Repetitions: 9}
		p.Init(f, models.DefaultLadder(), epoch)

		if f.DepthLevel != 0 || f.Repetitions != 0 {
			t.Errorf("%s: expected depth 0 reps 0, got %d/%d", p.Name(), f.DepthLevel, f.Repetitions)
		}
		if f.EaseFactor != DefaultEaseFactor {
			t.Errorf("%s: expected ease %.1f, got %.2f", p.Name(), DefaultEaseFactor, f.EaseFactor)
		}
		if !f.NextReviewAt.Equal(epoch.Add(time.Hour)) {
			t.Errorf("%s: expected first review in 1h, got %v", p.Name(), f.NextReviewAt)
		}
		if f.Ready {
			t.Errorf("%s: new fish must not be ready before its first interval", p.Name())
		}
	}
}

func TestLadder_DefaultLadderScenario(t *testing.T) {
	ladder := models.DefaultLadder()
	f := &models.Fish{}
	Ladder{}.Init(f, ladder, epoch)

	Ladder{}.Apply(f, ladder, 1, epoch)
	if f.DepthLevel != 1 {
		t.Fatalf("expected depth 1, got %d", f.DepthLevel)
	}
	if !f.NextReviewAt.Equal(epoch.Add(24 * time.Hour)) {
		t.Errorf("expected next review in 1d, got %v", f.NextReviewAt.Sub(epoch))
	}

	later := epoch.Add(25 * time.Hour)
	Ladder{}.Apply(f, ladder, -1, later)
	if f.DepthLevel != 0 {
		t.Fatalf("expected depth 0, got %d", f.DepthLevel)
	}
	if !f.NextReviewAt.Equal(later.Add(time.Hour)) {
		t.Errorf("expected next review in 1h, got %v", f.NextReviewAt.Sub(later))
	}
	if f.Repetitions != 2 {
		t.Errorf("expected 2 repetitions, got %d", f.Repetitions)
	}
	if !f.UpdatedAt.Equal(later) {
		t.Errorf("expected updated_at %v, got %v", later, f.UpdatedAt)
	}
}

func TestLadder_DepthStaysInBounds(t *testing.T) {
	ladder := models.DefaultLadder()
	tests := []struct {
		name    string
		start   int
		quality int
		want    int
	}{
		{"below floor", 0, -5, 0},
		{"above ceiling", 3, 10, 3},
		{"zero quality", 2, 0, 2},
		{"huge jump", 0, 1000, 3},
		{"max int from middle", 1, math.MaxInt, 3},
		{"min int from middle", 2, math.MinInt, 0},
		{"max int from top", 3, math.MaxInt, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := &models.Fish{DepthLevel: tc.start}
			Ladder{}.Apply(f, ladder, tc.quality, epoch)
			if f.DepthLevel != tc.want {
				t.Errorf("expected depth %d, got %d", tc.want, f.DepthLevel)
			}
			if !f.NextReviewAt.Equal(epoch.Add(ladder[tc.want])) {
				t.Errorf("expected next review at rung %d", tc.want)
			}
		})
	}
}

func TestLadder_Reschedule(t *testing.T) {
	f := &models.Fish{DepthLevel: 3, UpdatedAt: epoch}
	short := models.Ladder{10 * time.Minute, 2 * time.Hour}

	Ladder{}.Reschedule(f, short)

	if f.DepthLevel != 1 {
		t.Errorf("expected depth clamped to 1, got %d", f.DepthLevel)
	}
	if !f.NextReviewAt.Equal(epoch.Add(2 * time.Hour)) {
		t.Errorf("expected next review from updated_at + 2h, got %v", f.NextReviewAt)
	}
}

func TestSM2_PassingSequence(t *testing.T) {
	ladder := models.DefaultLadder()
	f := &models.Fish{}
	SM2{}.Init(f, ladder, epoch)

	wantIntervals := []int{1, 6, 15}
	for i, want := range wantIntervals {
		SM2{}.Apply(f, ladder, 4, epoch)
		if f.IntervalDays != want {
			t.Fatalf("review %d: expected interval %d, got %d", i+1, want, f.IntervalDays)
		}
	}
	if f.Repetitions != 3 {
		t.Errorf("expected 3 repetitions, got %d", f.Repetitions)
	}
	// quality 4 leaves the ease factor unchanged
	if math.Abs(f.EaseFactor-2.5) > 1e-9 {
		t.Errorf("expected ease 2.5, got %f", f.EaseFactor)
	}
	if f.DepthLevel != 2 {
		t.Errorf("expected depth bucket 2, got %d", f.DepthLevel)
	}
	if !f.NextReviewAt.Equal(epoch.Add(15 * 24 * time.Hour)) {
		t.Errorf("expected next review in 15d, got %v", f.NextReviewAt.Sub(epoch))
	}
}

func TestSM2_FailureResets(t *testing.T) {
	ladder := models.DefaultLadder()
	f := &models.Fish{Repetitions: 5, IntervalDays: 40, EaseFactor: 2.0}

	SM2{}.Apply(f, ladder, 1, epoch)

	if f.Repetitions != 0 || f.IntervalDays != 1 {
		t.Errorf("expected reset to reps 0 interval 1, got %d/%d", f.Repetitions, f.IntervalDays)
	}
	if math.Abs(f.EaseFactor-1.8) > 1e-9 {
		t.Errorf("expected ease 1.8, got %f", f.EaseFactor)
	}
	if f.DepthLevel != 1 {
		t.Errorf("expected depth bucket 1, got %d", f.DepthLevel)
	}
}

func TestSM2_EaseFloor(t *testing.T) {
	ladder := models.DefaultLadder()
	f := &models.Fish{EaseFactor: DefaultEaseFactor}
	for i := 0; i < 20; i++ {
		SM2{}.Apply(f, ladder, 0, epoch)
		if f.EaseFactor < MinEaseFactor {
			t.Fatalf("ease factor dropped below floor: %f", f.EaseFactor)
		}
	}
	if f.EaseFactor != MinEaseFactor {
		t.Errorf("expected ease to settle at %.1f, got %f", MinEaseFactor, f.EaseFactor)
	}
}

func TestSM2_ClampsQualityAndDefaultsEase(t *testing.T) {
	ladder := models.DefaultLadder()
	f := &models.Fish{}

	SM2{}.Apply(f, ladder, 9, epoch)

	// treated as quality 5: ease 2.5 + 0.1
	if math.Abs(f.EaseFactor-2.6) > 1e-9 {
		t.Errorf("expected ease 2.6, got %f", f.EaseFactor)
	}
	if f.IntervalDays != 1 || f.Repetitions != 1 {
		t.Errorf("expected interval 1 reps 1, got %d/%d", f.IntervalDays, f.Repetitions)
	}
}

func TestSM2_DepthBucketFitsShortLadder(t *testing.T) {
	ladder := models.Ladder{time.Hour}
	f := &models.Fish{Repetitions: 6, IntervalDays: 30, EaseFactor: 2.5}

	SM2{}.Apply(f, ladder, 5, epoch)

	if f.DepthLevel != 0 {
		t.Errorf("expected depth clamped to 0 on a single-rung ladder, got %d", f.DepthLevel)
	}
}
