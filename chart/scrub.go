package chart

// Locate returns the target under a pointer at horizontal position x: the
// highest-indexed target whose X is at or left of the pointer. A pointer left
// of every target resolves to the first one. The boolean is false only when r
// has no targets.
func Locate(x float32, r *Result) (Target, bool) {
	if r == nil || len(r.Targets) == 0 {
		return Target{}, false
	}
	found := 0
	for i, t := range r.Targets {
		if t.X <= x {
			found = i
		}
	}
	return r.Targets[found], true
}

// ScrubEvent describes the indicator after a Scrubber transition.
type ScrubEvent struct {
	Index  int
	Marker Target
	// Visible reports whether the indicator and readout should be shown.
	Visible bool
	// Feedback is set when the resolved index changed and the host should
	// emit selection feedback.
	Feedback bool
}

// Scrubber tracks a press-drag-release gesture over a chart. The zero value is
// idle with nothing selected.
type Scrubber struct {
	// KeepVisible leaves the indicator shown after release.
	KeepVisible bool

	tracking bool
	visible  bool
	// index is the last resolved index, valid once hasIndex is set.
	index    int
	hasIndex bool
	marker   Target
}

// Tracking reports whether a gesture is in progress.
func (s *Scrubber) Tracking() bool {
	return s.tracking
}

// Current returns the state of the indicator without changing it.
func (s *Scrubber) Current() ScrubEvent {
	return ScrubEvent{Index: s.marker.Index, Marker: s.marker, Visible: s.visible}
}

// Press starts a gesture at x. It always requests feedback when a target is
// found.
func (s *Scrubber) Press(x float32, r *Result) (ScrubEvent, bool) {
	t, ok := Locate(x, r)
	if !ok {
		return ScrubEvent{}, false
	}
	s.tracking = true
	s.visible = true
	s.hasIndex = true
	s.index = t.Index
	s.marker = t
	return ScrubEvent{Index: t.Index, Marker: t, Visible: true, Feedback: true}, true
}

// Drag moves an in-progress gesture to x. Feedback is only requested when the
// resolved index differs from the previous one. Drag outside a gesture is
// ignored.
func (s *Scrubber) Drag(x float32, r *Result) (ScrubEvent, bool) {
	if !s.tracking {
		return ScrubEvent{}, false
	}
	t, ok := Locate(x, r)
	if !ok {
		return ScrubEvent{}, false
	}
	changed := !s.hasIndex || t.Index != s.index
	s.hasIndex = true
	s.index = t.Index
	s.marker = t
	return ScrubEvent{Index: t.Index, Marker: t, Visible: true, Feedback: changed}, true
}

// Release ends the gesture. The indicator stays visible only if KeepVisible
// is set.
func (s *Scrubber) Release() ScrubEvent {
	s.tracking = false
	s.visible = s.visible && s.KeepVisible
	return s.Current()
}

// Restore moves a visible indicator onto the matching target of a new layout,
// clamping the index to the new item count. It never requests feedback.
func (s *Scrubber) Restore(r *Result) (ScrubEvent, bool) {
	if !s.hasIndex || r == nil || len(r.Targets) == 0 {
		s.visible = false
		return s.Current(), false
	}
	i := min(max(s.index, 0), len(r.Targets)-1)
	s.index = i
	s.marker = r.Targets[i]
	return s.Current(), s.visible
}
