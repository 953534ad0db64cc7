package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testID = uuid.MustParse("0b6a5c1e-3f4d-4f0a-9c2e-7d1b8e4a6f10")

func TestLadderJSON(t *testing.T) {
	l := Ladder{90 * time.Minute, 2*24*time.Hour + 3*time.Hour}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"days":0,"hours":1,"minutes":30},{"days":2,"hours":3,"minutes":0}]`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var back Ladder
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 || back[0] != l[0] || back[1] != l[1] {
		t.Errorf("expected %v, got %v", l, back)
	}
}

func TestLadderClamp(t *testing.T) {
	l := DefaultLadder()
	tests := []struct {
		depth int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{2, 2},
		{4, 3},
	}
	for _, tc := range tests {
		if got := l.Clamp(tc.depth); got != tc.want {
			t.Errorf("Clamp(%d): expected %d, got %d", tc.depth, tc.want, got)
		}
	}
	if got := (Ladder{}).Clamp(5); got != 0 {
		t.Errorf("empty ladder should clamp to 0, got %d", got)
	}
	if got := (Ladder{}).At(2); got != 0 {
		t.Errorf("empty ladder should have zero interval, got %v", got)
	}
}

func TestPondIntervalsAreCopied(t *testing.T) {
	src := DefaultLadder()
	p := &Pond{}
	p.SetIntervals(src)
	src[0] = time.Second

	got := p.GetIntervals()
	if got[0] != time.Hour {
		t.Errorf("SetIntervals must copy, got %v", got[0])
	}
	got[1] = time.Second
	if p.Intervals[1] != 24*time.Hour {
		t.Errorf("GetIntervals must copy, got %v", p.Intervals[1])
	}
}

func TestActiveSession(t *testing.T) {
	if NoSession().IsActive() {
		t.Error("zero session must be inactive")
	}
	var f Fisher
	if f.ActiveSession.IsActive() {
		t.Error("new fisher must have no session")
	}

	a := ActiveSessionOf(testID)
	id, ok := a.ID()
	if !ok || id != testID {
		t.Errorf("expected %v, got %v/%v", testID, id, ok)
	}
	n := a.NullUUID()
	if !n.Valid || n.UUID != testID {
		t.Errorf("unexpected null uuid %+v", n)
	}
	if ActiveSessionFromNull(n) != a {
		t.Error("round trip through NullUUID changed the value")
	}
}

func TestFishRefresh(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &Fish{NextReviewAt: now}
	f.Refresh(now)
	if !f.Ready {
		t.Error("fish due exactly now must be ready")
	}
	f.Refresh(now.Add(-time.Second))
	if f.Ready {
		t.Error("fish due in the future must not be ready")
	}
}
