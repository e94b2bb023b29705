package lexer

import (
	"io"

	"github.com/logoc/logoc/source/err"
)

// The lexer reads its input one rune at a time and never looks further back than the
// two runes it can push back onto the supplier. This means it can work on a stream as
// easily as on a string.
type RuneSupplier struct {
	reader  io.RuneReader
	pending []rune     // Runes pushed back, the most recent last.
	history []position // Where we were before each of the last two reads.
	pos     position   // Where the next rune comes from.
}

type position struct {
	line, col int
}

const UNGET_LIMIT = 2

func NewRuneSupplier(r io.RuneReader) *RuneSupplier {
	return &RuneSupplier{reader: r, pos: position{line: 1}}
}

// Returns the next rune, or 0 at the end of the input.
func (rs *RuneSupplier) ReadRune() rune {
	var r rune
	if len(rs.pending) > 0 {
		r = rs.pending[len(rs.pending)-1]
		rs.pending = rs.pending[:len(rs.pending)-1]
	} else {
		var e error
		r, _, e = rs.reader.ReadRune()
		if e != nil {
			r = 0
		}
	}
	rs.history = append(rs.history, rs.pos)
	if len(rs.history) > UNGET_LIMIT {
		rs.history = rs.history[1:]
	}
	switch r {
	case 0:
	case '\n':
		rs.pos = position{line: rs.pos.line + 1}
	default:
		rs.pos.col++
	}
	return r
}

// Pushes back the rune most recently read.
func (rs *RuneSupplier) UnreadRune(r rune) {
	if len(rs.pending) == UNGET_LIMIT || len(rs.history) == 0 {
		err.Internal("lexer tried to push back more than %d runes", UNGET_LIMIT)
	}
	rs.pending = append(rs.pending, r)
	rs.pos = rs.history[len(rs.history)-1]
	rs.history = rs.history[:len(rs.history)-1]
}

func (rs *RuneSupplier) PeekRune() rune {
	r := rs.ReadRune()
	rs.UnreadRune(r)
	return r
}

// The line number and the column, counting from 0, of the next rune.
func (rs *RuneSupplier) Position() (int, int) {
	return rs.pos.line, rs.pos.col
}
