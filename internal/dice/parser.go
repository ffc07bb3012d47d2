package dice

import (
	"fmt"
	"strings"
)

// ParseError reports malformed dice notation. Pos is the byte offset of the
// offending substring in the original input.
type ParseError struct {
	Input  string
	Pos    int
	Detail string
}

// Error returns the error message with position context.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid dice notation %q at position %d: %s", e.Input, e.Pos, e.Detail)
}

// parser is a single-pass scanner over a notation string.
type parser struct {
	input string
	pos   int
}

// Parse parses dice notation into an Expression.
//
// Grammar: a sum of signed terms joined by + or -. A term is either
// <count>d<faces> followed by zero or more modifiers (dl<n>, dh<n>, kh<n>,
// kl<n>, r<value>, !) or a bare integer constant. Faces must be at least 2;
// a count of 0 is a legal empty pool. Drop and keep are mutually exclusive
// on one term.
func Parse(notation string) (*Expression, error) {
	p := &parser{input: notation}
	p.skipSpaces()
	if p.eof() {
		return nil, p.errorf(p.pos, "empty expression")
	}

	var terms []Term
	for {
		term, err := p.parseTerm(len(terms) == 0)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)

		p.skipSpaces()
		if p.eof() {
			break
		}
		if c := p.peek(); c != '+' && c != '-' {
			return nil, p.errorf(p.pos, "expected '+' or '-', found %q", string(c))
		}
	}

	return &Expression{terms: terms}, nil
}

// parseTerm parses one signed term. The leading sign is optional on the
// first term and required (as the joining operator) afterwards.
func (p *parser) parseTerm(first bool) (Term, error) {
	p.skipSpaces()

	var term Term
	if !p.eof() && (p.peek() == '+' || p.peek() == '-') {
		term.Negative = p.peek() == '-'
		p.pos++
		p.skipSpaces()
		// A term may carry its own sign after the joining operator ("3d6+-2").
		if !p.eof() && (p.peek() == '+' || p.peek() == '-') {
			if p.peek() == '-' {
				term.Negative = !term.Negative
			}
			p.pos++
		}
	} else if !first {
		return term, p.errorf(p.pos, "expected signed term")
	}

	start := p.pos
	value, ok := p.parseInt()
	if !ok {
		return term, p.errorf(start, "expected a number")
	}

	if p.eof() || p.peek() != 'd' || !isDigit(p.peekAt(p.pos+1)) {
		// Flat constant term.
		term.Flat = value
		return term, nil
	}

	p.pos++ // consume 'd'
	facesStart := p.pos
	faces, ok := p.parseInt()
	if !ok {
		return term, p.errorf(facesStart, "expected die faces after 'd'")
	}
	if faces < 2 {
		return term, p.errorf(facesStart, "die must have at least 2 faces, got %d", faces)
	}

	term.Count = value
	term.Faces = faces

	if err := p.parseModifiers(&term); err != nil {
		return term, err
	}
	return term, nil
}

// parseModifiers consumes the modifier suffix of a dice term.
func (p *parser) parseModifiers(term *Term) error {
	for !p.eof() {
		start := p.pos
		switch {
		case p.peek() == '!':
			p.pos++
			term.Mods = append(term.Mods, TermModifier{Kind: ModifierExplode})

		case p.peek() == 'r':
			p.pos++
			n, ok := p.parseInt()
			if !ok {
				return p.errorf(p.pos, "expected reroll value after 'r'")
			}
			term.Mods = append(term.Mods, TermModifier{Kind: ModifierReroll, N: n})

		case strings.HasPrefix(p.input[p.pos:], "dl"), strings.HasPrefix(p.input[p.pos:], "dh"),
			strings.HasPrefix(p.input[p.pos:], "kh"), strings.HasPrefix(p.input[p.pos:], "kl"):
			kind := ModifierKind(p.input[p.pos : p.pos+2])
			p.pos += 2
			n, ok := p.parseInt()
			if !ok {
				return p.errorf(p.pos, "expected count after %q", string(kind))
			}
			if conflict := dropKeepConflict(term.Mods, kind); conflict != "" {
				return p.errorf(start, "%q conflicts with earlier %q on the same term", string(kind), conflict)
			}
			term.Mods = append(term.Mods, TermModifier{Kind: kind, N: n})

		default:
			return nil
		}
	}
	return nil
}

// dropKeepConflict returns the notation of an earlier drop/keep modifier when
// adding kind would mix drop with keep on one term.
func dropKeepConflict(mods []TermModifier, kind ModifierKind) string {
	isDrop := kind == ModifierDropLowest || kind == ModifierDropHighest
	isKeep := kind == ModifierKeepHighest || kind == ModifierKeepLowest
	for _, m := range mods {
		switch m.Kind {
		case ModifierDropLowest, ModifierDropHighest:
			if isKeep {
				return string(m.Kind)
			}
		case ModifierKeepHighest, ModifierKeepLowest:
			if isDrop {
				return string(m.Kind)
			}
		}
	}
	return ""
}

func (p *parser) parseInt() (int, bool) {
	start := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return 0, false
	}
	value := 0
	for _, c := range p.input[start:p.pos] {
		value = value*10 + int(c-'0')
	}
	return value, true
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	return p.input[p.pos]
}

func (p *parser) peekAt(i int) byte {
	if i >= len(p.input) {
		return 0
	}
	return p.input[i]
}

func (p *parser) errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{
		Input:  p.input,
		Pos:    pos,
		Detail: fmt.Sprintf(format, args...),
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
