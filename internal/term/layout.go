package term

import (
	"github.com/rivo/uniseg"
)

const tabWidth = 4

// cell is one grapheme cluster of a line as it appears on screen.
type cell struct {
	text   string
	offset int // byte offset in the line
	x      int // screen column
	width  int
}

// layoutLine splits line into grapheme clusters with their screen columns.
func layoutLine(line string) []cell {
	var cells []cell
	g := uniseg.NewGraphemes(line)
	offset, x := 0, 0
	for g.Next() {
		text := g.Str()
		w := clusterWidth(text, x)
		cells = append(cells, cell{text: text, offset: offset, x: x, width: w})
		offset += len(text)
		x += w
	}
	return cells
}

func clusterWidth(text string, x int) int {
	if text == "\t" {
		return tabWidth - x%tabWidth
	}
	if w := uniseg.StringWidth(text); w > 0 {
		return w
	}
	return 0
}

// displayColumn returns the screen column of byte offset col in line.
func displayColumn(line string, col int) int {
	x := 0
	for _, c := range layoutLine(line) {
		if c.offset >= col {
			return c.x
		}
		x = c.x + c.width
	}
	return x
}

// byteColumn returns the byte offset of the cluster covering screen column
// x in line, or the line length when x lies past its end.
func byteColumn(line string, x int) int {
	for _, c := range layoutLine(line) {
		if x < c.x+c.width {
			return c.offset
		}
	}
	return len(line)
}

// prevCluster returns the offset of the cluster before col.
func prevCluster(line string, col int) int {
	prev := 0
	for _, c := range layoutLine(line) {
		if c.offset >= col {
			break
		}
		prev = c.offset
	}
	return prev
}

// nextCluster returns the offset just past the cluster at col.
func nextCluster(line string, col int) int {
	for _, c := range layoutLine(line) {
		if c.offset >= col {
			return c.offset + len(c.text)
		}
	}
	return len(line)
}
