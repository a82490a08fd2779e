// Package region classifies offsets of a Markdown document as protected or
// free for automatic correction.
//
// Protected regions are YAML front-matter, fenced code blocks, fenced math
// blocks, inline code spans and inline math spans. Classification only looks
// at the document content above a line and at the line itself up to the
// offset; no parse tree is kept between calls.
//
// The block-level part of the answer is the same for every offset of a line,
// so it is computed once by Classify and reused through the returned Verdict:
//
//	v := region.Classify(doc, line)
//	if !v.Protected(doc.LineText(line), col) {
//	    // safe to edit at col
//	}
package region

import "strings"

// Lines is the read-only view of a document the classifier needs.
type Lines interface {
	LineCount() int
	LineText(line int) string
}

// Kind identifies the protected region an offset falls in.
type Kind uint8

const (
	KindNone Kind = iota
	KindFrontMatter
	KindCodeFence
	KindMathFence
	KindInlineCode
	KindInlineMath
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFrontMatter:
		return "front-matter"
	case KindCodeFence:
		return "code-fence"
	case KindMathFence:
		return "math-fence"
	case KindInlineCode:
		return "inline-code"
	case KindInlineMath:
		return "inline-math"
	default:
		return "unknown"
	}
}

const (
	frontMatterDelimiter = "---"
	codeFence            = "```"
	mathFence            = "$$"
)

// Verdict is the block-level classification of one line.
type Verdict struct {
	Line  int
	Block Kind // KindNone, KindFrontMatter, KindCodeFence or KindMathFence
}

// Classify computes the block-level verdict for line.
func Classify(lines Lines, line int) Verdict {
	v := Verdict{Line: line}
	switch {
	case inFrontMatter(lines, line):
		v.Block = KindFrontMatter
	case fenceOpen(lines, line, codeFence):
		v.Block = KindCodeFence
	case fenceOpen(lines, line, mathFence):
		v.Block = KindMathFence
	}
	return v
}

// ClassifyAll computes the block-level verdict of every line in one pass.
// The result is identical to calling Classify for each line.
func ClassifyAll(lines Lines) []Verdict {
	n := lines.LineCount()
	verdicts := make([]Verdict, n)

	frontMatterEnd := -1
	if n > 0 && strings.TrimSpace(lines.LineText(0)) == frontMatterDelimiter {
		frontMatterEnd = n - 1
		for i := 1; i < n; i++ {
			if strings.TrimSpace(lines.LineText(i)) == frontMatterDelimiter {
				frontMatterEnd = i
				break
			}
		}
	}

	var code, math bool
	for i := 0; i < n; i++ {
		v := Verdict{Line: i}
		switch {
		case i <= frontMatterEnd:
			v.Block = KindFrontMatter
		case code:
			v.Block = KindCodeFence
		case math:
			v.Block = KindMathFence
		}
		verdicts[i] = v

		trimmed := strings.TrimSpace(lines.LineText(i))
		if strings.HasPrefix(trimmed, codeFence) {
			code = !code
		}
		if strings.HasPrefix(trimmed, mathFence) {
			math = !math
		}
	}
	return verdicts
}

// Kind reports the region offset falls in, given the current text of the
// verdict's line. Block regions take precedence over inline ones.
func (v Verdict) Kind(text string, offset int) Kind {
	if v.Block != KindNone {
		return v.Block
	}
	if oddUnescaped(text, offset, '`') {
		return KindInlineCode
	}
	if oddUnescaped(text, offset, '$') {
		return KindInlineMath
	}
	return KindNone
}

// Protected reports whether offset in text must not be edited.
func (v Verdict) Protected(text string, offset int) bool {
	return v.Kind(text, offset) != KindNone
}

// IsProtected classifies a single offset. Callers checking several offsets
// of the same line should use Classify once and query the Verdict.
func IsProtected(lines Lines, line, offset int) bool {
	return Classify(lines, line).Protected(lines.LineText(line), offset)
}

// inFrontMatter reports whether line lies inside a front-matter block that
// opens on line 0. An unclosed block extends to the end of the document.
func inFrontMatter(lines Lines, line int) bool {
	if lines.LineCount() == 0 || strings.TrimSpace(lines.LineText(0)) != frontMatterDelimiter {
		return false
	}
	for i := 1; i < line; i++ {
		if strings.TrimSpace(lines.LineText(i)) == frontMatterDelimiter {
			return false
		}
	}
	return true
}

// fenceOpen reports whether an odd number of lines above line start with
// the fence marker.
func fenceOpen(lines Lines, line int, marker string) bool {
	open := false
	for i := 0; i < line; i++ {
		if strings.HasPrefix(strings.TrimSpace(lines.LineText(i)), marker) {
			open = !open
		}
	}
	return open
}

// oddUnescaped reports whether text[:offset] contains an odd number of c
// not immediately preceded by a backslash.
func oddUnescaped(text string, offset int, c byte) bool {
	if offset > len(text) {
		offset = len(text)
	}
	odd := false
	for i := 0; i < offset; i++ {
		if text[i] != c {
			continue
		}
		if i > 0 && text[i-1] == '\\' {
			continue
		}
		odd = !odd
	}
	return odd
}
