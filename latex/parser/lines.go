package parser

// LineIndex maps byte offsets to line and column numbers.
type LineIndex struct {
	file       string
	size       int
	lineStarts []int
}

func NewLineIndex(file string, input []byte) *LineIndex {
	starts := []int{0}
	for i, ch := range input {
		if ch == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{file: file, size: len(input), lineStarts: starts}
}

func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}

// Position returns the 1-based line and column of offset. Offsets outside
// the input are clamped.
func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > li.size {
		offset = li.size
	}
	line := BisectRight(li.lineStarts, offset) - 1
	return Position{
		File:   li.file,
		Offset: offset,
		Line:   line + 1,
		Column: offset - li.lineStarts[line] + 1,
	}
}

// Offset is the inverse of Position. A column past the end of its line
// maps to the line end.
func (li *LineIndex) Offset(line, column int) int {
	if line < 1 {
		return 0
	}
	if line > len(li.lineStarts) {
		return li.size
	}
	start := li.lineStarts[line-1]
	end := li.size
	if line < len(li.lineStarts) {
		end = li.lineStarts[line] - 1
	}
	if column < 1 {
		column = 1
	}
	offset := start + column - 1
	if offset > end {
		offset = end
	}
	return offset
}
