package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	MaxPondNameLen        = 128
	MaxPondTopicLen       = 128
	MaxPondDescriptionLen = 1024
	MaxLadderLen          = 32
)

// Ladder is the per-pond review schedule: index i is how far out the next
// review goes for a fish at depth level i.
type Ladder []time.Duration

// DefaultLadder is used when a pond is created without intervals.
func DefaultLadder() Ladder {
	return Ladder{time.Hour, 24 * time.Hour, 7 * 24 * time.Hour, 30 * 24 * time.Hour}
}

// Clamp returns depth limited to [0, len-1].
func (l Ladder) Clamp(depth int) int {
	if depth < 0 || len(l) == 0 {
		return 0
	}
	if depth > len(l)-1 {
		return len(l) - 1
	}
	return depth
}

// At returns the interval for depth after clamping it into the ladder.
func (l Ladder) At(depth int) time.Duration {
	if len(l) == 0 {
		return 0
	}
	return l[l.Clamp(depth)]
}

func (l Ladder) Clone() Ladder {
	if l == nil {
		return nil
	}
	out := make(Ladder, len(l))
	copy(out, l)
	return out
}

func (l Ladder) MarshalJSON() ([]byte, error) {
	out := make([]Interval, len(l))
	for i, d := range l {
		out[i] = IntervalFromDuration(d)
	}
	return json.Marshal(out)
}

func (l *Ladder) UnmarshalJSON(data []byte) error {
	var in []Interval
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*l = LadderFromIntervals(in)
	return nil
}

// Interval is the wire form of one ladder step. Each field is capped at
// ten years so the summed Duration stays far below the int64 limit.
type Interval struct {
	Days    int `json:"days" validate:"min=0,max=3650"`
	Hours   int `json:"hours" validate:"min=0,max=87600"`
	Minutes int `json:"minutes" validate:"min=0,max=5256000"`
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.Days)*24*time.Hour +
		time.Duration(i.Hours)*time.Hour +
		time.Duration(i.Minutes)*time.Minute
}

func IntervalFromDuration(d time.Duration) Interval {
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	return Interval{Days: int(days), Hours: int(hours), Minutes: int(d / time.Minute)}
}

func LadderFromIntervals(in []Interval) Ladder {
	out := make(Ladder, len(in))
	for i, iv := range in {
		out[i] = iv.Duration()
	}
	return out
}

type Pond struct {
	ID          uuid.UUID `json:"id"`
	FisherID    uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Topic       string    `json:"topic"`
	Intervals   Ladder    `json:"intervals"`
	FishCount   int       `json:"cnt_fishes"`
	ReadyCount  int       `json:"cnt_ready_fishes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetIntervals stores a copy of l as the pond's ladder.
func (p *Pond) SetIntervals(l Ladder) {
	p.Intervals = l.Clone()
}

// GetIntervals returns a copy of the pond's ladder.
func (p *Pond) GetIntervals() Ladder {
	return p.Intervals.Clone()
}

type PondRequest struct {
	Name        string     `json:"name" validate:"required,max=128"`
	Description string     `json:"description" validate:"max=1024"`
	Topic       string     `json:"topic" validate:"max=128"`
	Intervals   []Interval `json:"intervals" validate:"max=32,dive"`
	AIRequest   *string    `json:"ai_request" validate:"omitempty,max=2048"`
	AICount     int        `json:"ai_cnt" validate:"omitempty,min=1,max=100"`
}
