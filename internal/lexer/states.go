package lexer

import "fmt"

// charClass groups input bytes that drive identical transitions.
type charClass uint8

const (
	classOther charClass = iota
	classQuote           // "
	classT               // letters of true/false
	classR
	classU
	classE
	classF
	classA
	classL
	classS
	classDigit // 0-9
	classDot   // .
	classBlank // space, tab
	classComma // ,
	classCR    // \r
	classLF    // \n
	numCharClasses
)

// state is a lexer state. The keyword states track how much of "true" or
// "false" has been matched so far.
type state uint8

const (
	stateNewLexeme state = iota
	stateUnquoted
	stateInsideQuotes
	stateQuoteInsideQuote
	stateT
	stateTR
	stateTRU
	stateTRUE
	stateF
	stateFA
	stateFAL
	stateFALS
	stateFALSE
	stateInteger
	stateFloat
	stateError
	numStates
)

var stateNames = [numStates]string{
	stateNewLexeme:        "NewLexeme",
	stateUnquoted:         "UnquotedString",
	stateInsideQuotes:     "InsideQuotes",
	stateQuoteInsideQuote: "QuoteInsideQuote",
	stateT:                "T",
	stateTR:               "TR",
	stateTRU:              "TRU",
	stateTRUE:             "TRUE",
	stateF:                "F",
	stateFA:               "FA",
	stateFAL:              "FAL",
	stateFALS:             "FALS",
	stateFALSE:            "FALSE",
	stateInteger:          "NumInteger",
	stateFloat:            "NumFloat",
	stateError:            "Error",
}

func (s state) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// action is performed when a transition fires.
type action uint8

const (
	actionNone      action = iota
	actionSkipBlank        // move the lexeme start past a leading blank
	actionEndField         // finalize the lexeme from the previous state
	actionError            // abort with transition.err
)

type transition struct {
	next   state
	action action
	err    error
}

// charClassTable maps every byte to its class.
var charClassTable [256]charClass

// transitions is indexed by [current state][char class].
var transitions [numStates][numCharClasses]transition

func init() {
	initCharClassTable()
	initTransitions()
}

func initCharClassTable() {
	for i := range charClassTable {
		charClassTable[i] = classOther
	}
	for c := '0'; c <= '9'; c++ {
		charClassTable[c] = classDigit
	}

	charClassTable['"'] = classQuote
	charClassTable['t'] = classT
	charClassTable['r'] = classR
	charClassTable['u'] = classU
	charClassTable['e'] = classE
	charClassTable['f'] = classF
	charClassTable['a'] = classA
	charClassTable['l'] = classL
	charClassTable['s'] = classS
	charClassTable['.'] = classDot
	charClassTable[' '] = classBlank
	charClassTable['\t'] = classBlank
	charClassTable[','] = classComma
	charClassTable['\r'] = classCR
	charClassTable['\n'] = classLF
}

func isTerminator(c charClass) bool {
	return c == classComma || c == classCR || c == classLF
}

func initTransitions() {
	// Anything unexpected in an unquoted context degrades to a plain string,
	// and a terminator always closes the lexeme.
	for s := state(0); s < numStates; s++ {
		for c := charClass(0); c < numCharClasses; c++ {
			if isTerminator(c) {
				transitions[s][c] = transition{stateNewLexeme, actionEndField, nil}
			} else {
				transitions[s][c] = transition{stateUnquoted, actionNone, nil}
			}
		}
		if s != stateNewLexeme {
			transitions[s][classQuote] = transition{stateError, actionError, ErrQuotePlacement}
		}
	}

	transitions[stateNewLexeme][classQuote] = transition{stateInsideQuotes, actionNone, nil}
	transitions[stateNewLexeme][classBlank] = transition{stateNewLexeme, actionSkipBlank, nil}
	transitions[stateNewLexeme][classDigit] = transition{stateInteger, actionNone, nil}
	transitions[stateNewLexeme][classDot] = transition{stateFloat, actionNone, nil}
	transitions[stateNewLexeme][classT] = transition{stateT, actionNone, nil}
	transitions[stateNewLexeme][classF] = transition{stateF, actionNone, nil}

	// Keywords only advance while the whole prefix still matches.
	transitions[stateT][classR] = transition{stateTR, actionNone, nil}
	transitions[stateTR][classU] = transition{stateTRU, actionNone, nil}
	transitions[stateTRU][classE] = transition{stateTRUE, actionNone, nil}
	transitions[stateF][classA] = transition{stateFA, actionNone, nil}
	transitions[stateFA][classL] = transition{stateFAL, actionNone, nil}
	transitions[stateFAL][classS] = transition{stateFALS, actionNone, nil}
	transitions[stateFALS][classE] = transition{stateFALSE, actionNone, nil}

	transitions[stateInteger][classDigit] = transition{stateInteger, actionNone, nil}
	transitions[stateInteger][classDot] = transition{stateFloat, actionNone, nil}
	transitions[stateFloat][classDigit] = transition{stateFloat, actionNone, nil}

	// Separators and line ends are literal content inside quotes.
	for c := charClass(0); c < numCharClasses; c++ {
		transitions[stateInsideQuotes][c] = transition{stateInsideQuotes, actionNone, nil}
	}
	transitions[stateInsideQuotes][classQuote] = transition{stateQuoteInsideQuote, actionNone, nil}

	// A quote inside quotes is either an escape (next byte is a quote) or
	// the closing quote (next byte is a terminator).
	for c := charClass(0); c < numCharClasses; c++ {
		if !isTerminator(c) {
			transitions[stateQuoteInsideQuote][c] = transition{stateError, actionError, ErrOutsideQuotes}
		}
	}
	transitions[stateQuoteInsideQuote][classQuote] = transition{stateInsideQuotes, actionNone, nil}
	transitions[stateQuoteInsideQuote][classBlank] = transition{stateError, actionError, ErrSpaceAfterQuote}

	for c := charClass(0); c < numCharClasses; c++ {
		transitions[stateError][c] = transition{stateError, actionError, ErrQuotePlacement}
	}
}

// finalKind maps the state a lexeme ended in to its token kind.
func finalKind(s state) Kind {
	switch s {
	case stateNewLexeme:
		return Empty
	case stateQuoteInsideQuote:
		return QuotedString
	case stateTRUE, stateFALSE:
		return Boolean
	case stateInteger:
		return Integer
	case stateFloat:
		return Float
	default:
		// unquoted text and partially matched keywords
		return RegularString
	}
}
