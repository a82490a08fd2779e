package buffer

import "fmt"

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in bytes from the start of the line.
type Point struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column (byte offset within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Range represents a half-open range [Start, End) of points.
type Range struct {
	Start Point
	End   Point
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}

// Change describes one applied mutation.
type Change struct {
	Range    Range  // The replaced range, in pre-edit coordinates
	NewEnd   Point  // End of the inserted text, in post-edit coordinates
	OldText  string // The text that was replaced
	NewText  string // The inserted text
	Revision uint64 // Buffer revision after the change
}

// Listener receives change notifications.
type Listener func(Change)
