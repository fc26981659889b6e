package chameleon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanStringSinglePoint(t *testing.T) {
	loc := Location{Line: 1, Column: 5}
	assert.Equal(t, "1:5", NewSpan(loc, loc).String())
}

func TestSpanStringSameLine(t *testing.T) {
	s := NewSpan(Location{Line: 2, Column: 1}, Location{Line: 2, Column: 8})
	assert.Equal(t, "2:1..8", s.String())
}

func TestSpanStringMultiLine(t *testing.T) {
	s := NewSpan(Location{Line: 1, Column: 3}, Location{Line: 3, Column: 1})
	assert.Equal(t, "1:3..3:1", s.String())
}

func TestLineIndexLocatesAcrossLines(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	li := NewLineIndex(src)

	assert.Equal(t, Location{Line: 1, Column: 1, Cursor: 0}, li.LocationAt(0))
	assert.Equal(t, Location{Line: 1, Column: 4, Cursor: 3}, li.LocationAt(3))
	assert.Equal(t, Location{Line: 2, Column: 1, Cursor: 4}, li.LocationAt(4))
	assert.Equal(t, Location{Line: 3, Column: 3, Cursor: 10}, li.LocationAt(10))
}

func TestLineIndexClampsOutOfRangeCursors(t *testing.T) {
	li := NewLineIndex([]byte("abc"))
	assert.Equal(t, li.LocationAt(3), li.LocationAt(100))
	assert.Equal(t, li.LocationAt(0), li.LocationAt(-5))
}
