// Package scan provides the tokenizers used by the correction rules.
//
// All functions work on byte offsets into a single line and never fail:
// when nothing matches they report ok=false.
package scan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r belongs to a word token: a letter, a
// combining mark or an apostrophe.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || r == '\'' || r == '’'
}

// Word is a maximal run of word runes.
type Word struct {
	Text  string
	Start int // byte offset of the first rune
}

// End returns the byte offset just past the word.
func (w Word) End() int {
	return w.Start + len(w.Text)
}

// LastWord returns the last maximal run of word runes in s.
// Trailing non-word characters are skipped.
func LastWord(s string) (Word, bool) {
	end := len(s)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if IsWordRune(r) {
			break
		}
		end -= size
	}
	if end == 0 {
		return Word{}, false
	}

	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:start])
		if !IsWordRune(r) {
			break
		}
		start -= size
	}
	return Word{Text: s[start:end], Start: start}, true
}

// WordAt returns the run of word runes starting exactly at offset.
func WordAt(s string, offset int) (Word, bool) {
	if offset < 0 || offset >= len(s) {
		return Word{}, false
	}
	end := offset
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if !IsWordRune(r) {
			break
		}
		end += size
	}
	if end == offset {
		return Word{}, false
	}
	return Word{Text: s[offset:end], Start: offset}, true
}

// Words returns every maximal run of word runes in s, left to right.
func Words(s string) []Word {
	var words []Word
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !IsWordRune(r) {
			i += size
			continue
		}
		w, _ := WordAt(s, i)
		words = append(words, w)
		i = w.End()
	}
	return words
}

// HasDoubleCapital reports whether the word is at least three runes long,
// starts with two uppercase runes and continues with a lowercase one.
func HasDoubleCapital(word string) bool {
	runes := []rune(word)
	if len(runes) < 3 {
		return false
	}
	return unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) && unicode.IsLower(runes[2])
}

// SecondRune returns the offset, within word, and value of its second rune.
func SecondRune(word string) (int, rune, bool) {
	_, first := utf8.DecodeRuneInString(word)
	if first == 0 || first >= len(word) {
		return 0, 0, false
	}
	r, _ := utf8.DecodeRuneInString(word[first:])
	return first, r, true
}

// ListContent returns the byte offset where the content of a list item
// begins: after "- ", "* " or "<digits>." plus whitespace, following any
// indentation. ok is false when the line is not a list item.
func ListContent(line string) (int, bool) {
	indent := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
	rest := line[indent:]

	var marker int
	switch {
	case strings.HasPrefix(rest, "- "), strings.HasPrefix(rest, "* "):
		marker = 1
	default:
		digits := 0
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits == 0 || digits >= len(rest) || rest[digits] != '.' {
			return 0, false
		}
		marker = digits + 1
	}

	after := rest[marker:]
	content := strings.TrimLeftFunc(after, unicode.IsSpace)
	if len(content) == len(after) {
		return 0, false
	}
	return indent + marker + len(after) - len(content), true
}

// SentenceStart is a lowercase letter that begins a sentence.
type SentenceStart struct {
	Offset     int // byte offset of the lowercase letter
	Terminator int // byte offset of the preceding '.', '!' or '?', or -1 at line start
}

// SentenceStarts returns every position in line where a lowercase letter
// follows either the start of the line (after optional indentation) or a
// sentence terminator and at least one whitespace character.
func SentenceStarts(line string) []SentenceStart {
	var starts []SentenceStart

	lead := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
	if r, _ := utf8.DecodeRuneInString(line[lead:]); unicode.IsLower(r) {
		starts = append(starts, SentenceStart{Offset: lead, Terminator: -1})
	}

	for i := 0; i < len(line); i++ {
		if !isTerminator(line[i]) {
			continue
		}
		j := i + 1
		for j < len(line) {
			r, size := utf8.DecodeRuneInString(line[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}
		if j == i+1 || j >= len(line) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(line[j:]); unicode.IsLower(r) {
			starts = append(starts, SentenceStart{Offset: j, Terminator: i})
		}
	}
	return starts
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

// TokenBefore returns the whitespace-delimited token ending with the
// terminator at offset term, terminator included, with leading opening
// punctuation removed. For "see e.g. this" and the second '.', it is "e.g.".
func TokenBefore(line string, term int) string {
	if term < 0 || term >= len(line) {
		return ""
	}
	start := term
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:start])
		if unicode.IsSpace(r) {
			break
		}
		start -= size
	}
	return strings.TrimLeft(line[start:term+1], "([{\"'“‘")
}
