package x12

import (
	"regexp"
	"strconv"
)

// Qualifier syntax: segment tag, 2-digit element position, optional
// 1-based sub-element position ("BPR02", "SVC01-2").
var qualifierRe = regexp.MustCompile(`^([A-Z][A-Z0-9]{1,2})(\d{2})(?:-(\d+))?$`)

// Cursor is a forward-only random-access reader over a tokenized
// segment stream. The structured readers do not use it; it serves ad
// hoc lookups against files whose layout is not worth walking.
type Cursor struct {
	segs []Segment
	pos  int
}

// NewCursor returns a cursor positioned at the first segment.
func NewCursor(segs []Segment) *Cursor {
	return &Cursor{segs: segs}
}

// Read scans forward from the current position for the next segment
// whose tag matches the qualifier and returns the addressed
// (sub-)element. On a hit the cursor advances past the matched segment;
// on a miss it returns nil with the cursor unchanged. A malformed
// qualifier is rejected before any scan.
func (c *Cursor) Read(qualifier string) (*string, error) {
	m := qualifierRe.FindStringSubmatch(qualifier)
	if m == nil {
		return nil, InvalidArgumentf("malformed qualifier %q", qualifier)
	}

	tag := m[1]
	elem, _ := strconv.Atoi(m[2])
	comp := 1
	if m[3] != "" {
		comp, _ = strconv.Atoi(m[3])
	}
	if elem < 1 || comp < 1 {
		return nil, InvalidArgumentf("qualifier %q addresses position zero", qualifier)
	}

	for i := c.pos; i < len(c.segs); i++ {
		if c.segs[i].Tag() != tag {
			continue
		}
		v := c.segs[i].Comp(elem, comp-1)
		c.pos = i + 1
		return &v, nil
	}
	return nil, nil
}

// Reset rewinds the cursor to the first segment.
func (c *Cursor) Reset() {
	c.pos = 0
}
