// Package notes implements the free-form note editor: a flat rune buffer with
// a single cursor. Lines are derived from newline positions on every call and
// never stored.
package notes

import "slices"

type Buffer struct {
	text   []rune
	cursor int
}

// New returns a buffer holding text with the cursor at the end.
func New(text string) *Buffer {
	b := &Buffer{}
	b.SetText(text)
	return b
}

func (b *Buffer) SetText(text string) {
	b.text = []rune(text)
	b.cursor = len(b.text)
}

func (b *Buffer) String() string { return string(b.text) }
func (b *Buffer) Len() int       { return len(b.text) }
func (b *Buffer) Cursor() int    { return b.cursor }

func (b *Buffer) SetCursor(pos int) {
	b.cursor = pos
	b.clamp()
}

// Split returns the text on either side of the cursor.
func (b *Buffer) Split() (before, after string) {
	return string(b.text[:b.cursor]), string(b.text[b.cursor:])
}

func (b *Buffer) Insert(r rune) {
	b.text = slices.Insert(b.text, b.cursor, r)
	b.cursor++
	b.clamp()
}

func (b *Buffer) InsertString(s string) {
	rs := []rune(s)
	b.text = slices.Insert(b.text, b.cursor, rs...)
	b.cursor += len(rs)
	b.clamp()
}

func (b *Buffer) Newline() { b.Insert('\n') }

func (b *Buffer) DeleteBackward() {
	if b.cursor == 0 {
		return
	}
	b.text = slices.Delete(b.text, b.cursor-1, b.cursor)
	b.cursor--
	b.clamp()
}

func (b *Buffer) DeleteForward() {
	if b.cursor >= len(b.text) {
		return
	}
	b.text = slices.Delete(b.text, b.cursor, b.cursor+1)
	b.clamp()
}

func (b *Buffer) MoveLeft() {
	b.cursor--
	b.clamp()
}

func (b *Buffer) MoveRight() {
	b.cursor++
	b.clamp()
}

// MoveUp keeps the column, clamped to the previous line's length. On the
// first line it goes to the line start.
func (b *Buffer) MoveUp() {
	start := b.lineStart(b.cursor)
	if start == 0 {
		b.cursor = 0
		return
	}
	col := b.cursor - start
	prevEnd := start - 1
	prevStart := b.lineStart(prevEnd)
	b.cursor = prevStart + min(col, prevEnd-prevStart)
	b.clamp()
}

// MoveDown keeps the column, clamped to the next line's length. It does
// nothing on the last line.
func (b *Buffer) MoveDown() {
	end := b.lineEnd(b.cursor)
	if end == len(b.text) {
		return
	}
	col := b.cursor - b.lineStart(b.cursor)
	nextStart := end + 1
	nextEnd := b.lineEnd(nextStart)
	b.cursor = nextStart + min(col, nextEnd-nextStart)
	b.clamp()
}

func (b *Buffer) MoveHome() {
	b.cursor = b.lineStart(b.cursor)
}

func (b *Buffer) MoveEnd() {
	b.cursor = b.lineEnd(b.cursor)
}

// Position reports the zero-based line and column of the cursor.
func (b *Buffer) Position() (line, col int) {
	for _, r := range b.text[:b.cursor] {
		if r == '\n' {
			line++
		}
	}
	return line, b.cursor - b.lineStart(b.cursor)
}

// lineStart is the offset just past the last newline before pos, or 0.
func (b *Buffer) lineStart(pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if b.text[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// lineEnd is the offset of the first newline at or after pos, or Len().
func (b *Buffer) lineEnd(pos int) int {
	for i := pos; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			return i
		}
	}
	return len(b.text)
}

func (b *Buffer) clamp() {
	b.cursor = max(0, min(b.cursor, len(b.text)))
}
