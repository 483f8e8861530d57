//spellchecker:words quadsource
package quadsource

//spellchecker:words errors strings unicode cayleygraph quad nquads github bindjoin binding joinkey
import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// Slot is a position of a pattern.
// It holds either a variable or a fixed term.
type Slot struct {
	Var  binding.Var
	Term binding.Term
}

// IsVar checks if this slot holds a variable.
func (slot Slot) IsVar() bool {
	return slot.Var != ""
}

func (slot Slot) String() string {
	if slot.IsVar() {
		return slot.Var.String()
	}
	return slot.Term.String()
}

// Pattern is a triple pattern.
type Pattern struct {
	Subject, Predicate, Object Slot
}

func (pattern Pattern) String() string {
	return pattern.Subject.String() + " " + pattern.Predicate.String() + " " + pattern.Object.String()
}

// Match matches the pattern against a token.
// ok is false if the token does not match.
func (pattern Pattern) Match(token Token) (row binding.Binding, ok bool) {
	var builder binding.Builder
	for _, pair := range [3]struct {
		slot Slot
		term binding.Term
	}{
		{pattern.Subject, token.Subject},
		{pattern.Predicate, token.Predicate},
		{pattern.Object, token.Object},
	} {
		if !pair.slot.IsVar() {
			if pair.slot.Term != pair.term {
				return binding.Empty, false
			}
			continue
		}
		builder.Add(pair.slot.Var, pair.term)
	}

	// a variable used twice must be bound to the same value
	row, err := builder.Build()
	if err != nil {
		return binding.Empty, false
	}
	return row, true
}

// Patterns is a conjunction of triple patterns.
type Patterns []Pattern

// Vars returns the variables of all patterns in order of first occurrence.
func (patterns Patterns) Vars() *joinkey.Key {
	var builder joinkey.Builder
	for _, pattern := range patterns {
		for _, slot := range [3]Slot{pattern.Subject, pattern.Predicate, pattern.Object} {
			if slot.IsVar() {
				builder.Add(slot.Var)
			}
		}
	}
	return builder.Build()
}

func (patterns Patterns) String() string {
	parts := make([]string, len(patterns))
	for i, pattern := range patterns {
		parts[i] = pattern.String()
	}
	return strings.Join(parts, " . ")
}

// SharedKey returns the variables of left that also occur in right, in the order of left.
func SharedKey(left, right *joinkey.Key) *joinkey.Key {
	var builder joinkey.Builder
	for _, v := range left.Vars() {
		if right.Contains(v) {
			builder.Add(v)
		}
	}
	return builder.Build()
}

// varPrefix is the iri prefix used to encode variables when handing patterns to the quad parser
const varPrefix = "urn:x-bindjoin:var:"

var (
	errNoPatterns    = errors.New("no patterns")
	errUnterminated  = errors.New("unterminated term")
	errEmptyVariable = errors.New("empty variable name")
)

// ParsePatterns parses a conjunction of triple patterns.
//
// Patterns are written like N-Triples statements, but any position may instead hold a variable such as "?x".
// Patterns are separated by " . ", a trailing separator is optional.
func ParsePatterns(source string) (Patterns, error) {
	statements, err := encodeVariables(source)
	if err != nil {
		return nil, err
	}
	if len(statements) == 0 {
		return nil, errNoPatterns
	}

	reader := nquads.NewReader(strings.NewReader(strings.Join(statements, "\n")), true)
	defer reader.Close()

	patterns := make(Patterns, 0, len(statements))
	for {
		value, err := reader.ReadQuad()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse pattern: %w", err)
		}

		var pattern Pattern
		for _, pair := range [3]struct {
			dest  *Slot
			value quad.Value
		}{
			{&pattern.Subject, value.Subject},
			{&pattern.Predicate, value.Predicate},
			{&pattern.Object, value.Object},
		} {
			term, err := binding.FromQuad(pair.value)
			if err != nil {
				return nil, fmt.Errorf("failed to parse pattern: %w", err)
			}
			if term.Kind == binding.KindIRI && strings.HasPrefix(term.Value, varPrefix) {
				pair.dest.Var = binding.Var(strings.TrimPrefix(term.Value, varPrefix))
				continue
			}
			pair.dest.Term = term
		}
		patterns = append(patterns, pattern)
	}

	if len(patterns) != len(statements) {
		return nil, fmt.Errorf("failed to parse pattern: expected %d patterns, got %d", len(statements), len(patterns))
	}
	return patterns, nil
}

// encodeVariables splits source into statements terminated by " .".
// Variables outside of iris and literals are replaced by iris starting with varPrefix.
func encodeVariables(source string) (statements []string, err error) {
	runes := []rune(source)

	var current strings.Builder
	flush := func() {
		if statement := strings.TrimSpace(current.String()); statement != "" {
			statements = append(statements, statement+" .")
		}
		current.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '<':
			end := indexRune(runes, i+1, '>')
			if end < 0 {
				return nil, errUnterminated
			}
			current.WriteString(string(runes[i : end+1]))
			i = end
		case r == '"':
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				if runes[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(runes) {
				return nil, errUnterminated
			}
			current.WriteString(string(runes[i : end+1]))
			i = end
		case r == '?':
			end := i + 1
			for end < len(runes) && isVarRune(runes[end]) {
				end++
			}
			if end == i+1 {
				return nil, errEmptyVariable
			}
			current.WriteString("<" + varPrefix + string(runes[i+1:end]) + ">")
			i = end - 1
		case r == '.' && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return statements, nil
}

func indexRune(runes []rune, start int, r rune) int {
	for i := start; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

func isVarRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
