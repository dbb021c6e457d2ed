package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputBuffer_InsertAndCursor(t *testing.T) {
	buf := NewInputBuffer("scn")
	buf = buf.MoveTo(1).Insert("c")

	assert.Equal(t, "sccn", buf.Text())
	assert.Equal(t, 2, buf.Cursor())
}

func TestInputBuffer_ValueSemantics(t *testing.T) {
	original := NewInputBuffer("ping")
	edited := original.Backspace().Insert("G")

	assert.Equal(t, "ping", original.Text())
	assert.Equal(t, "pinG", edited.Text())
}

func TestInputBuffer_Backspace(t *testing.T) {
	tests := []struct {
		name       string
		buf        InputBuffer
		wantText   string
		wantCursor int
	}{
		{"at end", NewInputBuffer("help"), "hel", 3},
		{"at start is no-op", NewInputBuffer("help").Home(), "help", 0},
		{"middle", NewInputBuffer("help").MoveTo(2), "hlp", 1},
		{"selection", NewInputBuffer("scan host").Select(4, 9), "scan", 4},
		{"empty", NewInputBuffer(""), "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.buf.Backspace()
			assert.Equal(t, tt.wantText, got.Text())
			assert.Equal(t, tt.wantCursor, got.Cursor())
		})
	}
}

func TestInputBuffer_Delete(t *testing.T) {
	buf := NewInputBuffer("abc").Home().Delete()
	assert.Equal(t, "bc", buf.Text())
	assert.Equal(t, 0, buf.Cursor())

	buf = NewInputBuffer("abc").Delete()
	assert.Equal(t, "abc", buf.Text())
}

func TestInputBuffer_InsertReplacesSelection(t *testing.T) {
	buf := NewInputBuffer("lookup 1.1.1.1").Select(7, 14).Insert("8.8.8.8")
	assert.Equal(t, "lookup 8.8.8.8", buf.Text())
	_, _, ok := buf.Selection()
	assert.False(t, ok)
}

func TestInputBuffer_MoveClamps(t *testing.T) {
	buf := NewInputBuffer("abc")
	assert.Equal(t, 3, buf.Move(10).Cursor())
	assert.Equal(t, 0, buf.Move(-10).Cursor())
	assert.Equal(t, 0, buf.MoveTo(-1).Cursor())
}

func TestInputBuffer_WordMovement(t *testing.T) {
	buf := NewInputBuffer("system ls  -la")

	buf = buf.PreviousWord()
	assert.Equal(t, 11, buf.Cursor())
	buf = buf.PreviousWord()
	assert.Equal(t, 7, buf.Cursor())
	buf = buf.NextWord()
	assert.Equal(t, 11, buf.Cursor())

	buf = buf.End().DeleteWordBackward()
	assert.Equal(t, "system ls  ", buf.Text())
}

func TestInputBuffer_Unicode(t *testing.T) {
	buf := NewInputBuffer("héllo").Backspace()
	assert.Equal(t, "héll", buf.Text())
	assert.Equal(t, 4, buf.Len())
}

func TestInputBuffer_ExtendSelection(t *testing.T) {
	b := NewInputBuffer("hello world").ExtendSelection(-1).ExtendSelection(-1)
	start, end, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, 9, start)
	assert.Equal(t, 11, end)
	assert.Equal(t, 9, b.Cursor())

	// shrinking back to the anchor clears the selection
	_, _, ok = b.ExtendSelection(2).Selection()
	assert.False(t, ok)

	// crossing the anchor flips the range around it
	b = NewInputBuffer("hello world").MoveTo(5).ExtendSelection(2).ExtendSelection(-4)
	start, end, ok = b.Selection()
	require.True(t, ok)
	assert.Equal(t, 3, start)
	assert.Equal(t, 5, end)
	assert.Equal(t, 3, b.Cursor())
	assert.Equal(t, "hel world", b.Backspace().Text())
}
