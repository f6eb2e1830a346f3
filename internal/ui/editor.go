package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// editorBuffer is a multi-line query buffer indexed by bytes. The caret
// always sits on a UTF-8 boundary; motions step whole grapheme clusters
// while vertical motion clamps the byte column to the target line.
type editorBuffer struct {
	text    string
	caret   int
	vscroll int
	hscroll int
}

func (e *editorBuffer) setText(text string) {
	e.text = text
	e.caret = len(text)
	e.vscroll = 0
	e.hscroll = 0
}

func (e *editorBuffer) clampCaret() {
	if e.caret > len(e.text) {
		e.caret = len(e.text)
	}
	if e.caret < 0 {
		e.caret = 0
	}
	for e.caret > 0 && e.caret < len(e.text) && !utf8.RuneStart(e.text[e.caret]) {
		e.caret--
	}
}

func prevBoundary(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	cur := 0
	rest := s
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := cur + len(cluster)
		if next >= pos {
			return cur
		}
		cur = next
	}
	return cur
}

func nextBoundary(s string, pos int) int {
	if pos >= len(s) {
		return len(s)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[pos:], -1)
	return pos + len(cluster)
}

func (e *editorBuffer) moveLeft() {
	e.caret = prevBoundary(e.text, e.caret)
}

func (e *editorBuffer) moveRight() {
	e.caret = nextBoundary(e.text, e.caret)
}

func (e *editorBuffer) moveUp() {
	before := e.text[:e.caret]
	lastNL := strings.LastIndexByte(before, '\n')
	if lastNL < 0 {
		return
	}
	col := e.caret - (lastNL + 1)

	prevStart := 0
	if idx := strings.LastIndexByte(e.text[:lastNL], '\n'); idx >= 0 {
		prevStart = idx + 1
	}
	prevLen := lastNL - prevStart
	if col > prevLen {
		col = prevLen
	}
	e.caret = prevStart + col
	e.clampCaret()
}

func (e *editorBuffer) moveDown() {
	before := e.text[:e.caret]
	lineStart := 0
	if idx := strings.LastIndexByte(before, '\n'); idx >= 0 {
		lineStart = idx + 1
	}
	col := e.caret - lineStart

	nextNL := strings.IndexByte(e.text[e.caret:], '\n')
	if nextNL < 0 {
		return
	}
	nextStart := e.caret + nextNL + 1
	nextLen := len(e.text) - nextStart
	if idx := strings.IndexByte(e.text[nextStart:], '\n'); idx >= 0 {
		nextLen = idx
	}
	if col > nextLen {
		col = nextLen
	}
	e.caret = nextStart + col
	e.clampCaret()
}

func (e *editorBuffer) insertRune(r rune) {
	e.clampCaret()
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	e.text = e.text[:e.caret] + string(buf[:n]) + e.text[e.caret:]
	e.caret += n
}

func (e *editorBuffer) insertString(s string) {
	e.clampCaret()
	e.text = e.text[:e.caret] + s + e.text[e.caret:]
	e.caret += len(s)
}

// deleteForward removes the grapheme under the caret, leaving the caret
// in place.
func (e *editorBuffer) deleteForward() {
	e.clampCaret()
	if e.caret >= len(e.text) {
		return
	}
	end := nextBoundary(e.text, e.caret)
	e.text = e.text[:e.caret] + e.text[end:]
}

func (e *editorBuffer) backspace() {
	if e.caret == 0 {
		return
	}
	start := prevBoundary(e.text, e.caret)
	e.text = e.text[:start] + e.text[e.caret:]
	e.caret = start
}

// caretLineCol reports the caret's line index and byte column.
func (e *editorBuffer) caretLineCol() (int, int) {
	before := e.text[:e.caret]
	line := strings.Count(before, "\n")
	col := e.caret
	if idx := strings.LastIndexByte(before, '\n'); idx >= 0 {
		col = e.caret - (idx + 1)
	}
	return line, col
}

// follow scrolls the viewport so the caret stays visible within a
// rows x cols window.
func (e *editorBuffer) follow(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	line, col := e.caretLineCol()
	if line >= e.vscroll+rows {
		e.vscroll = line - rows + 1
	} else if line < e.vscroll {
		e.vscroll = line
	}
	if col >= e.hscroll+cols {
		e.hscroll = col - cols + 1
	} else if col < e.hscroll {
		e.hscroll = col
	}
}

func (e *editorBuffer) scrollUp() {
	if e.vscroll > 0 {
		e.vscroll--
	}
}

func (e *editorBuffer) scrollDown(visible int) {
	max := strings.Count(e.text, "\n") + 1 - visible
	if max < 0 {
		max = 0
	}
	if e.vscroll < max {
		e.vscroll++
	}
}

// caretFromClick places the caret from viewport-relative cell coordinates,
// clamping the column to the clicked line and landing on a rune boundary.
func (e *editorBuffer) caretFromClick(row, col int) {
	targetLine := row + e.vscroll
	targetCol := col + e.hscroll

	lines := strings.Split(e.text, "\n")
	if targetLine >= len(lines) {
		e.caret = len(e.text)
		return
	}
	offset := 0
	for i := 0; i < targetLine; i++ {
		offset += len(lines[i]) + 1
	}
	line := lines[targetLine]
	byteCol := 0
	for i := 0; i < targetCol && byteCol < len(line); i++ {
		_, size := utf8.DecodeRuneInString(line[byteCol:])
		byteCol += size
	}
	e.caret = offset + byteCol
	e.clampCaret()
}

// visibleLines returns the viewport window of the buffer: the rows on
// screen with each line cut to the horizontal scroll, always on rune
// boundaries.
func (e *editorBuffer) visibleLines(rows, cols int) []string {
	lines := strings.Split(e.text, "\n")
	out := make([]string, 0, rows)
	for i := e.vscroll; i < len(lines) && i < e.vscroll+rows; i++ {
		out = append(out, cutLine(lines[i], e.hscroll, cols))
	}
	return out
}

func cutLine(line string, from, width int) string {
	start := boundaryAt(line, from)
	if start >= len(line) {
		return ""
	}
	end := boundaryAt(line, start+width)
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

func boundaryAt(s string, pos int) int {
	if pos >= len(s) {
		return len(s)
	}
	for pos > 0 && !utf8.RuneStart(s[pos]) {
		pos--
	}
	return pos
}
