package scheduler

import (
	"fmt"
	"sort"

	"github.com/julianstephens/studyplan/internal/models"
)

// span is a half-open range [start, end) of minutes from midnight.
type span struct {
	start models.Clock
	end   models.Clock
}

func (s span) len() int {
	if s.end <= s.start {
		return 0
	}
	return int(s.end - s.start)
}

func (s span) intersect(o span) span {
	r := span{start: max(s.start, o.start), end: min(s.end, o.end)}
	if r.end < r.start {
		r.end = r.start
	}
	return r
}

// timeline tracks the blocks claimed so far for one day. Every claim is
// checked against existing blocks, so overlaps cannot be introduced.
type timeline struct {
	blocks []models.TimeBlock
}

func (t *timeline) claim(b models.TimeBlock) error {
	if b.End <= b.Start {
		return fmt.Errorf("block %q has empty range %s-%s", b.Task, b.Start, b.End)
	}
	for _, existing := range t.blocks {
		if b.Start < existing.End && existing.Start < b.End {
			return fmt.Errorf("block %q (%s-%s) overlaps %q (%s-%s)",
				b.Task, b.Start, b.End, existing.Task, existing.Start, existing.End)
		}
	}
	t.blocks = append(t.blocks, b)
	sort.SliceStable(t.blocks, func(i, j int) bool { return t.blocks[i].Start < t.blocks[j].Start })
	return nil
}

// free returns the unclaimed gaps inside window, in order.
func (t *timeline) free(window span) []span {
	var gaps []span
	cur := window.start
	for _, b := range t.blocks {
		if b.End <= cur {
			continue
		}
		if b.Start >= window.end {
			break
		}
		if b.Start > cur {
			gaps = append(gaps, span{start: cur, end: min(b.Start, window.end)})
		}
		cur = max(cur, b.End)
	}
	if cur < window.end {
		gaps = append(gaps, span{start: cur, end: window.end})
	}
	return gaps
}

// fit finds room for a block of up to want minutes (at least least) inside
// window, preferring the longest placement and then the start closest to pref.
func (t *timeline) fit(pref models.Clock, want, least int, window span) (span, bool) {
	var best span
	found := false
	bestDist := 0
	for _, g := range t.free(window) {
		d := min(want, g.len())
		if d <= 0 || d < least {
			continue
		}
		start := clampStart(pref, d, g)
		dist := abs(int(start - pref))
		if !found || d > best.len() || (d == best.len() && dist < bestDist) {
			best = span{start: start, end: start.Add(d)}
			bestDist = dist
			found = true
		}
	}
	return best, found
}

// release drops a previously claimed block with the same range and task.
func (t *timeline) release(b models.TimeBlock) {
	for i, existing := range t.blocks {
		if existing.Start == b.Start && existing.End == b.End && existing.Task == b.Task {
			t.blocks = append(t.blocks[:i], t.blocks[i+1:]...)
			return
		}
	}
}

// clampStart moves pref into g so that a block of d minutes still fits.
func clampStart(pref models.Clock, d int, g span) models.Clock {
	start := max(pref, g.start)
	if latest := g.end.Add(-d); start > latest {
		start = latest
	}
	return start
}

func (t *timeline) sorted() []models.TimeBlock {
	out := make([]models.TimeBlock, len(t.blocks))
	copy(out, t.blocks)
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
