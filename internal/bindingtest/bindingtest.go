// Package bindingtest provides helpers for tests dealing with bindings.
//
//spellchecker:words bindingtest
package bindingtest

//spellchecker:words iter slices testing github bindjoin binding stretchr testify assert
import (
	"fmt"
	"iter"
	"slices"
	"testing"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/stretchr/testify/assert"
)

// Row builds a binding from alternating variable names and values.
//
// Values may be [binding.Term]s, ints (turned into integer literals) or strings (turned into plain literals).
// Row panics on malformed input.
func Row(pairs ...any) binding.Binding {
	if len(pairs)%2 != 0 {
		panic("Row: odd number of arguments")
	}

	var builder binding.Builder
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("Row: variable name at %d is a %T", i, pairs[i]))
		}
		builder.Add(binding.Var(name), Term(pairs[i+1]))
	}

	row, err := builder.Build()
	if err != nil {
		panic(err)
	}
	return row
}

// Term turns value into a term, see [Row].
func Term(value any) binding.Term {
	switch value := value.(type) {
	case binding.Term:
		return value
	case int:
		return binding.Integer(int64(value))
	case string:
		return binding.Literal(value)
	default:
		panic(fmt.Sprintf("Term: unsupported value %T", value))
	}
}

// Collect collects all rows of seq.
func Collect(seq iter.Seq[binding.Binding]) []binding.Binding {
	if seq == nil {
		return nil
	}
	return slices.Collect(seq)
}

// EqualMultiset asserts that want and got contain the same rows with the same multiplicity.
// Order is ignored.
func EqualMultiset(t testing.TB, want, got []binding.Binding, msgAndArgs ...any) bool {
	t.Helper()

	if sameMultiset(want, got) {
		return true
	}
	return assert.ElementsMatch(t, format(want), format(got), msgAndArgs...)
}

// sameMultiset checks if want and got are equal as multisets.
func sameMultiset(want, got []binding.Binding) bool {
	if len(want) != len(got) {
		return false
	}

	remaining := make(map[uint64][]binding.Binding, len(got))
	for _, row := range got {
		h := row.Hash()
		remaining[h] = append(remaining[h], row)
	}

	for _, row := range want {
		h := row.Hash()
		bucket := remaining[h]
		i := slices.IndexFunc(bucket, row.Equal)
		if i < 0 {
			return false
		}
		remaining[h] = slices.Delete(bucket, i, i+1)
	}
	return true
}

func format(rows []binding.Binding) []string {
	result := make([]string, len(rows))
	for i, row := range rows {
		result[i] = row.String()
	}
	return result
}
