package grep

import (
	"fmt"
	"regexp"
	"regexp/syntax"
)

// Matchers holds the two independently compiled forms of a pattern: one used
// on decoded text lines and one used on raw file bytes.
type Matchers struct {
	Text  *regexp.Regexp
	Bytes *regexp.Regexp

	// Gate is a multi-line form of the pattern used to rule out a whole file
	// in one pass. It is nil when no such form exists.
	Gate *regexp.Regexp
}

// Compile builds the text and byte matchers for pattern. When ignoreCase is
// set both matchers are compiled with the (?i) flag.
func Compile(pattern string, ignoreCase bool) (*Matchers, error) {
	expr := pattern
	if ignoreCase {
		expr = "(?i)" + expr
	}

	text, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return &Matchers{
		Text:  text,
		Bytes: regexp.MustCompile(expr),
		Gate:  compileGate(expr),
	}, nil
}

// compileGate compiles expr in multi-line mode, so that ^ and $ match at line
// boundaries of a whole file. Patterns using \A or \z anchor to the text
// itself and cannot be gated.
func compileGate(expr string) *regexp.Regexp {
	expr = "(?m)" + expr
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil || anchorsText(re) {
		return nil
	}
	gate, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	return gate
}

func anchorsText(re *syntax.Regexp) bool {
	if re.Op == syntax.OpBeginText || re.Op == syntax.OpEndText {
		return true
	}
	for _, sub := range re.Sub {
		if anchorsText(sub) {
			return true
		}
	}
	return false
}

// MatchLine reports whether line matches and, if so, the byte offsets of the
// first match.
func (m *Matchers) MatchLine(line string) (start, end int, ok bool) {
	loc := m.Text.FindStringIndex(line)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

// MayMatch reports whether any line of text might match. A false result is
// exact; a true result only means each line must be checked.
func (m *Matchers) MayMatch(text string) bool {
	if m.Gate == nil {
		return true
	}
	return m.Gate.MatchString(text)
}
