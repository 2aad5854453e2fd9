package svgpath

import (
	"errors"
	"fmt"
)

// arity is the number of parameters one repetition of a command takes.
var arity = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'S': 4, 'Q': 4,
	'C': 6,
	'A': 7,
	'Z': 0,
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func isCommand(c byte) bool {
	_, ok := arity[upper(c)]
	return ok
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

type pathScanner struct {
	src string
	pos int
}

func (s *pathScanner) done() bool { return s.pos >= len(s.src) }

func (s *pathScanner) skipSpace() {
	for !s.done() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// skipSep consumes whitespace with at most one comma.
func (s *pathScanner) skipSep() {
	s.skipSpace()
	if !s.done() && s.src[s.pos] == ',' {
		s.pos++
		s.skipSpace()
	}
}

func (s *pathScanner) digits() int {
	start := s.pos
	for !s.done() && isDigit(s.src[s.pos]) {
		s.pos++
	}
	return s.pos - start
}

// number consumes one SVG number: sign, digits, fraction, exponent.
func (s *pathScanner) number() error {
	start := s.pos
	if !s.done() && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
		s.pos++
	}
	n := s.digits()
	if !s.done() && s.src[s.pos] == '.' {
		s.pos++
		n += s.digits()
	}
	if n == 0 {
		return s.unexpected(start, "number")
	}
	if !s.done() && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		s.pos++
		if !s.done() && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		if s.digits() == 0 {
			return s.unexpected(start, "exponent")
		}
	}
	return nil
}

// flag consumes an arc flag, which may be written without a separator.
func (s *pathScanner) flag() error {
	if !s.done() && (s.src[s.pos] == '0' || s.src[s.pos] == '1') {
		s.pos++
		return nil
	}
	return s.unexpected(s.pos, "flag 0 or 1")
}

func (s *pathScanner) unexpected(at int, want string) error {
	if at >= len(s.src) {
		return fmt.Errorf("expected %s at end of data", want)
	}
	return fmt.Errorf("expected %s at offset %d, found %q", want, at, s.src[at])
}

// checkSyntax walks the path grammar without building geometry.
func checkSyntax(d string) error {
	s := &pathScanner{src: d}
	commands := 0

	for {
		s.skipSpace()
		if s.done() {
			break
		}
		at := s.pos
		cmd := s.src[s.pos]
		if !isCommand(cmd) {
			return s.unexpected(at, "command")
		}
		if commands == 0 && upper(cmd) != 'M' {
			return fmt.Errorf("path must start with a moveto, found %q", cmd)
		}
		commands++
		s.pos++

		n := arity[upper(cmd)]
		if n == 0 {
			continue
		}
		groups := 0
		for {
			s.skipSep()
			if s.done() || isCommand(s.src[s.pos]) {
				break
			}
			for i := 0; i < n; i++ {
				if i > 0 {
					s.skipSep()
				}
				var err error
				if upper(cmd) == 'A' && (i == 3 || i == 4) {
					err = s.flag()
				} else {
					err = s.number()
				}
				if err != nil {
					return fmt.Errorf("command %c needs %d numbers per segment: %w", cmd, n, err)
				}
			}
			groups++
		}
		if groups == 0 {
			return fmt.Errorf("command %c at offset %d has no parameters, needs %d", cmd, at, n)
		}
	}

	if commands == 0 {
		return errors.New("no path commands")
	}
	return nil
}
