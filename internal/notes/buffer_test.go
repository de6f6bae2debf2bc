package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func typed(s string) *Buffer {
	b := New("")
	for _, r := range s {
		if r == '\n' {
			b.Newline()
			continue
		}
		b.Insert(r)
	}
	return b
}

func at(text string, cursor int) *Buffer {
	b := New(text)
	b.SetCursor(cursor)
	return b
}

func TestTypingRoundTrip(t *testing.T) {
	b := typed("ab\ncd")
	assert.Equal(t, "ab\ncd", b.String())
	assert.Equal(t, 5, b.Cursor())

	b.MoveHome()
	assert.Equal(t, 3, b.Cursor())

	b = at("ab\ncd", 5)
	b.MoveUp()
	assert.Equal(t, 2, b.Cursor())

	b = at("ab\ncd", 0)
	b.MoveEnd()
	assert.Equal(t, 2, b.Cursor())
}

func TestNewPlacesCursorAtEnd(t *testing.T) {
	b := New("héllo")
	assert.Equal(t, 5, b.Cursor())
	assert.Equal(t, 5, b.Len())
}

func TestInsertMultiByte(t *testing.T) {
	b := at("añb", 2)
	b.Insert('é')
	assert.Equal(t, "añéb", b.String())
	assert.Equal(t, 3, b.Cursor())

	b.InsertString("日本")
	assert.Equal(t, "añé日本b", b.String())
	assert.Equal(t, 5, b.Cursor())

	before, after := b.Split()
	assert.Equal(t, "añé日本", before)
	assert.Equal(t, "b", after)
}

func TestDeleteBackward(t *testing.T) {
	b := at("abc", 0)
	b.DeleteBackward()
	assert.Equal(t, "abc", b.String())
	assert.Equal(t, 0, b.Cursor())

	b = at("añc", 2)
	b.DeleteBackward()
	assert.Equal(t, "ac", b.String())
	assert.Equal(t, 1, b.Cursor())

	b = at("a\nb", 2)
	b.DeleteBackward()
	assert.Equal(t, "ab", b.String())
	assert.Equal(t, 1, b.Cursor())
}

func TestDeleteForward(t *testing.T) {
	b := at("abc", 3)
	b.DeleteForward()
	assert.Equal(t, "abc", b.String())
	assert.Equal(t, 3, b.Cursor())

	b = at("añc", 1)
	b.DeleteForward()
	assert.Equal(t, "ac", b.String())
	assert.Equal(t, 1, b.Cursor())

	b = New("")
	b.DeleteForward()
	b.DeleteBackward()
	assert.Equal(t, "", b.String())
	assert.Equal(t, 0, b.Cursor())
}

func TestMoveLeftRightClamp(t *testing.T) {
	b := at("ab", 0)
	b.MoveLeft()
	assert.Equal(t, 0, b.Cursor())
	b.MoveRight()
	b.MoveRight()
	b.MoveRight()
	assert.Equal(t, 2, b.Cursor())
	b.MoveLeft()
	assert.Equal(t, 1, b.Cursor())
}

func TestSetCursorClamps(t *testing.T) {
	b := New("abc")
	b.SetCursor(-4)
	assert.Equal(t, 0, b.Cursor())
	b.SetCursor(99)
	assert.Equal(t, 3, b.Cursor())
}

func TestMoveUp(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		want   int
	}{
		{"keeps column", "abcd\nefgh", 7, 2},
		{"clamps to shorter line", "ab\nefgh", 7, 2},
		{"empty previous line", "\nabc", 3, 0},
		{"first line goes to start", "abc\ndef", 2, 0},
		{"from line start", "abc\ndef", 4, 0},
		{"three lines", "one\ntwo\nthree", 13, 7},
		{"empty buffer", "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := at(tt.text, tt.cursor)
			b.MoveUp()
			assert.Equal(t, tt.want, b.Cursor())
			assert.Equal(t, tt.text, b.String())
		})
	}
}

func TestMoveDown(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		want   int
	}{
		{"keeps column", "abcd\nefgh", 2, 7},
		{"clamps to shorter line", "abcd\nef", 3, 7},
		{"last line is a no-op", "abc\ndef", 5, 5},
		{"single line is a no-op", "abc", 1, 1},
		{"into trailing empty line", "abc\n", 2, 4},
		{"from newline position", "ab\ncd", 2, 5},
		{"skips to next line only", "a\nbcd\nef", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := at(tt.text, tt.cursor)
			b.MoveDown()
			assert.Equal(t, tt.want, b.Cursor())
		})
	}
}

func TestHomeEnd(t *testing.T) {
	b := at("one\ntwo\nthree", 6)
	b.MoveHome()
	assert.Equal(t, 4, b.Cursor())
	b.MoveEnd()
	assert.Equal(t, 7, b.Cursor())
	b.MoveEnd()
	assert.Equal(t, 7, b.Cursor(), "end on a newline stays put")

	b = at("one\ntwo\nthree", 10)
	b.MoveEnd()
	assert.Equal(t, 13, b.Cursor())
	b.MoveHome()
	assert.Equal(t, 8, b.Cursor())
}

func TestPosition(t *testing.T) {
	b := at("one\ntwo\nthree", 10)
	line, col := b.Position()
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	b.SetCursor(0)
	line, col = b.Position()
	assert.Equal(t, 0, line)
	assert.Equal(t, 0, col)
}

func TestVerticalRoundTripPreservesColumn(t *testing.T) {
	b := at("abcdef\nab\nabcdef", 4)
	b.MoveDown()
	assert.Equal(t, 9, b.Cursor())
	b.MoveDown()
	assert.Equal(t, 12, b.Cursor())
	b.MoveUp()
	b.MoveUp()
	assert.Equal(t, 2, b.Cursor())
}
