package chart

import (
	"context"
	"testing"

	"gioui.org/f32"
)

func fivePointLayout(t *testing.T, kind Kind) *Result {
	t.Helper()
	r, err := Layout(context.Background(), numberSeries(3, 8, 2, 6, 4), DefaultConfig(kind), f32.Pt(400, 300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Targets) != 5 {
		t.Fatalf("expected 5 targets, got %d", len(r.Targets))
	}
	return r
}

func TestLocate(t *testing.T) {
	for _, kind := range []Kind{KindLine, KindBar} {
		r := fivePointLayout(t, kind)
		x2 := r.Targets[2].X
		for _, tc := range []struct {
			name   string
			x      float32
			expect int
		}{
			{name: "exactly on index 2", x: x2, expect: 2},
			{name: "just left of index 2", x: x2 - 0.01, expect: 1},
			{name: "between 2 and 3", x: (x2 + r.Targets[3].X) / 2, expect: 2},
			{name: "left of every target", x: -100, expect: 0},
			{name: "right of every target", x: 10000, expect: 4},
		} {
			t.Run(kind.String()+"/"+tc.name, func(t *testing.T) {
				got, ok := Locate(tc.x, r)
				if !ok {
					t.Fatalf("expected a target")
				}
				if got.Index != tc.expect {
					t.Errorf("expected index %d, got %d", tc.expect, got.Index)
				}
				if got != r.Targets[got.Index] {
					t.Errorf("expected marker from the result's targets, got %+v", got)
				}
			})
		}
	}
}

func TestLocateEmpty(t *testing.T) {
	if _, ok := Locate(10, nil); ok {
		t.Errorf("expected no target for a nil result")
	}
	if _, ok := Locate(10, &Result{}); ok {
		t.Errorf("expected no target for a result without targets")
	}
}

func TestScrubberFeedbackOncePerIndex(t *testing.T) {
	r := fivePointLayout(t, KindLine)
	x2 := r.Targets[2].X
	var s Scrubber
	feedback := 0
	record := func(ev ScrubEvent, ok bool) {
		if !ok {
			t.Fatalf("expected scrub event")
		}
		if ev.Index != 2 {
			t.Errorf("expected index 2, got %d", ev.Index)
		}
		if ev.Feedback {
			feedback++
		}
	}
	record(s.Press(x2, r))
	record(s.Drag(x2, r))
	record(s.Drag(x2+0.5, r))
	record(s.Drag(x2, r))
	if feedback != 1 {
		t.Errorf("expected feedback exactly once, got %d", feedback)
	}

	ev, _ := s.Drag(r.Targets[3].X, r)
	if !ev.Feedback || ev.Index != 3 {
		t.Errorf("expected feedback on moving to index 3, got %+v", ev)
	}
	ev, _ = s.Drag(x2, r)
	if !ev.Feedback || ev.Index != 2 {
		t.Errorf("expected feedback on moving back to index 2, got %+v", ev)
	}
}

func TestScrubberRelease(t *testing.T) {
	r := fivePointLayout(t, KindBar)
	for _, keep := range []bool{false, true} {
		s := Scrubber{KeepVisible: keep}
		s.Press(r.Targets[1].X, r)
		if !s.Tracking() {
			t.Errorf("keep=%v: expected tracking after press", keep)
		}
		ev := s.Release()
		if s.Tracking() {
			t.Errorf("keep=%v: expected idle after release", keep)
		}
		if ev.Visible != keep {
			t.Errorf("keep=%v: expected visible=%v after release", keep, keep)
		}
		if ev.Feedback {
			t.Errorf("keep=%v: release must not request feedback", keep)
		}
		if _, ok := s.Drag(r.Targets[3].X, r); ok {
			t.Errorf("keep=%v: drag after release should be ignored", keep)
		}
	}
}

func TestScrubberRestore(t *testing.T) {
	r := fivePointLayout(t, KindLine)
	s := Scrubber{KeepVisible: true}
	s.Press(r.Targets[4].X, r)
	s.Release()

	smaller, err := Layout(context.Background(), numberSeries(1, 2, 3), DefaultConfig(KindLine), f32.Pt(200, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev, visible := s.Restore(smaller)
	if !visible {
		t.Errorf("expected kept indicator to stay visible")
	}
	if ev.Index != 2 {
		t.Errorf("expected index clamped to 2, got %d", ev.Index)
	}
	if ev.Marker != smaller.Targets[2] {
		t.Errorf("expected marker from the new layout, got %+v", ev.Marker)
	}
	if ev.Feedback {
		t.Errorf("restore must not request feedback")
	}

	var idle Scrubber
	if _, visible := idle.Restore(smaller); visible {
		t.Errorf("expected nothing to restore before the first press")
	}
}
