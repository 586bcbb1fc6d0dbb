// Package x12 tokenizes ANSI X12-style delimited healthcare transaction
// files into segments, elements, and component sub-elements, and groups
// them into interchange/group/transaction-set envelopes.
package x12

import (
	"bytes"
	"strings"
)

const (
	// SegmentTerminator ends each segment.
	SegmentTerminator = "~"
	// ElementSeparator splits a segment into elements.
	ElementSeparator = "*"
	// ComponentSeparator splits an element into sub-elements.
	ComponentSeparator = ":"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Segment is one tagged record: an ordered list of elements, each an
// ordered list of component sub-elements. Indexing follows X12 usage:
// element 0 is the tag, elements and components are addressed 0-based
// by the accessors below.
type Segment struct {
	elements [][]string
}

// Tag returns the segment identifier (ISA, CLP, SVC, ...).
func (s Segment) Tag() string {
	return s.Comp(0, 0)
}

// Len returns the number of elements including the tag.
func (s Segment) Len() int {
	return len(s.elements)
}

// Elem returns the first component of element i, or "" when absent.
func (s Segment) Elem(i int) string {
	return s.Comp(i, 0)
}

// Comp returns component j of element i, or "" when either is absent.
func (s Segment) Comp(i, j int) string {
	if i < 0 || i >= len(s.elements) {
		return ""
	}
	el := s.elements[i]
	if j < 0 || j >= len(el) {
		return ""
	}
	return el[j]
}

// String reassembles the segment in wire form, without the terminator.
func (s Segment) String() string {
	parts := make([]string, len(s.elements))
	for i, el := range s.elements {
		parts[i] = strings.Join(el, ComponentSeparator)
	}
	return strings.Join(parts, ElementSeparator)
}

// Tokenize splits raw file bytes into segments. A UTF-8 byte-order mark
// is stripped first; blank segments produced by trailing terminators or
// inter-segment newlines are dropped.
func Tokenize(data []byte) []Segment {
	data = bytes.TrimPrefix(data, utf8BOM)

	var segs []Segment
	for _, raw := range strings.Split(string(data), SegmentTerminator) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		rawElems := strings.Split(raw, ElementSeparator)
		elements := make([][]string, len(rawElems))
		for i, re := range rawElems {
			elements[i] = strings.Split(re, ComponentSeparator)
		}
		segs = append(segs, Segment{elements: elements})
	}
	return segs
}
