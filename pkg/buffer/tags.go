package buffer

import "sort"

// span is a tagged byte range [start, end).
type span struct {
	start, end int
}

// tagTable keeps the sorted, non-overlapping spans of every tag. It is not
// synchronised; RopeBuffer guards it with its own lock.
type tagTable struct {
	order []string // Precedence, lowest first
	spans map[string][]span
}

func newTagTable() tagTable {
	return tagTable{spans: make(map[string][]span)}
}

func (t *tagTable) define(tag string) {
	if _, ok := t.spans[tag]; ok {
		return
	}
	t.order = append(t.order, tag)
	t.spans[tag] = nil
}

func (t *tagTable) add(tag string, s span) {
	t.define(tag)
	if s.end <= s.start {
		return
	}
	t.spans[tag] = normalize(append(t.spans[tag], s))
}

func (t *tagTable) replace(tag string, spans []span) {
	t.define(tag)
	t.spans[tag] = normalize(spans)
}

func (t *tagTable) remove(tag string, cut span) {
	spans, ok := t.spans[tag]
	if !ok || cut.end <= cut.start {
		return
	}
	out := spans[:0:0]
	for _, s := range spans {
		if s.end <= cut.start || s.start >= cut.end { // No overlap
			out = append(out, s)
			continue
		}
		if s.start < cut.start {
			out = append(out, span{s.start, cut.start})
		}
		if s.end > cut.end {
			out = append(out, span{cut.end, s.end})
		}
	}
	t.spans[tag] = out
}

// clip returns the spans of tag that intersect [from, to), cut to that range.
func (t *tagTable) clip(tag string, from, to int) []span {
	spans := t.spans[tag]
	i := sort.Search(len(spans), func(i int) bool { return spans[i].end > from })

	var out []span
	for ; i < len(spans) && spans[i].start < to; i++ {
		s := spans[i]
		if s.start < from {
			s.start = from
		}
		if s.end > to {
			s.end = to
		}
		if s.start < s.end {
			out = append(out, s)
		}
	}
	return out
}

// shiftInsert moves spans after an insertion of n bytes at pos.
func (t *tagTable) shiftInsert(pos, n int) {
	for _, spans := range t.spans {
		for i := range spans {
			if spans[i].start >= pos {
				spans[i].start += n
			}
			if spans[i].end > pos {
				spans[i].end += n
			}
		}
	}
}

// shiftRemove moves spans after the bytes [from, to) were deleted.
func (t *tagTable) shiftRemove(from, to int) {
	n := to - from
	move := func(x int) int {
		switch {
		case x <= from:
			return x
		case x >= to:
			return x - n
		}
		return from
	}
	for tag, spans := range t.spans {
		out := spans[:0]
		for _, s := range spans {
			s = span{move(s.start), move(s.end)}
			if s.start < s.end {
				out = append(out, s)
			}
		}
		t.spans[tag] = out
	}
}

// normalize sorts spans and merges the ones that overlap or touch.
func normalize(spans []span) []span {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	out := spans[:0]
	for _, s := range spans {
		if s.end <= s.start {
			continue
		}
		if n := len(out); n > 0 && s.start <= out[n-1].end {
			if s.end > out[n-1].end {
				out[n-1].end = s.end
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
