package lexer

import (
	"github.com/shapestone/shape-csvjson/internal/buffer"
)

// Lex tokenizes input in one pass.
//
// Leading and trailing whitespace of the whole buffer is ignored, and the
// end of input acts as a final line terminator, so the returned tokens
// always end with a LineBreak. Token spans index into input itself.
//
// Doubled quotes inside quoted fields are left in the span; consumers undo
// the escaping when rendering.
//
// On failure the returned error is a *Error.
func Lex(input []byte) ([]Token, error) {
	lo, hi := trimBounds(input)
	tokens := buffer.New[Token]((hi - lo) / 4)

	st := stateNewLexeme
	start := lo
	line, col := position(input[:lo])
	startLine, startCol := line, col

	for i := lo; i <= hi; i++ {
		c := byte('\n')
		if i < hi {
			c = input[i]
		}
		crlf := c == '\r' && i+1 < hi && input[i+1] == '\n'

		tr := transitions[st][charClassTable[c]]
		if tr.action == actionError {
			return nil, &Error{Line: line, Column: col, Err: tr.err}
		}

		if tr.action == actionEndField {
			tokens.Push(finalize(st, start, i, startLine, startCol))
			if c != ',' {
				tokens.Push(Token{Kind: LineBreak, Start: i, End: i, Line: line, Column: col})
			}
			if crlf {
				// \r\n is a single terminator
				i++
				c = '\n'
				crlf = false
			}
		}

		st = tr.next

		if c == '\n' || (c == '\r' && !crlf) {
			line++
			col = 1
		} else {
			col++
		}

		switch tr.action {
		case actionEndField:
			start = i + 1
			startLine, startCol = line, col
		case actionSkipBlank:
			start = i + 1
			startCol = col
		}
	}

	if st == stateInsideQuotes {
		return nil, &Error{Line: startLine, Column: startCol, Err: ErrUnterminatedQuote}
	}

	return tokens.Shrink(), nil
}

// finalize builds the token for a lexeme spanning [start, end) that ended
// in state s.
func finalize(s state, start, end, line, col int) Token {
	tok := Token{Kind: finalKind(s), Start: start, End: end, Line: line, Column: col}
	switch tok.Kind {
	case Empty:
		tok.End = start
	case QuotedString:
		// drop the surrounding quotes
		tok.Start = start + 1
		tok.End = end - 1
	}
	return tok
}

// position returns the 1-based line and column just past prefix.
func position(prefix []byte) (int, int) {
	line, col := 1, 1
	for i, c := range prefix {
		if c == '\n' || (c == '\r' && (i+1 == len(prefix) || prefix[i+1] != '\n')) {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// trimBounds returns the bounds of input without leading and trailing
// ASCII whitespace.
func trimBounds(input []byte) (int, int) {
	lo, hi := 0, len(input)
	for lo < hi && isSpace(input[lo]) {
		lo++
	}
	for hi > lo && isSpace(input[hi-1]) {
		hi--
	}
	return lo, hi
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
