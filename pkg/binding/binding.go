// Package binding provides variables, RDF terms and solution mappings.
//
//spellchecker:words binding
package binding

//spellchecker:words iter slices strings github cespare xxhash
import (
	"iter"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Var represents a query variable.
// Two variables are identical iff their names are identical.
type Var string

// String returns the name of this variable prefixed with a question mark.
func (v Var) String() string {
	return "?" + string(v)
}

// entry is a single variable-term pair within a binding.
type entry struct {
	v Var
	t Term
}

// Binding is a partial mapping from variables to terms, also known as a solution mapping.
//
// A Binding is immutable once created, and may be shared freely.
// It never maps a variable to two different terms.
// The zero Binding binds no variables.
type Binding struct {
	entries []entry // sorted by variable, never modified
}

// Empty is the binding that binds no variables.
var Empty Binding

// FromMap creates a new binding holding the given variable-term pairs.
func FromMap(values map[Var]Term) Binding {
	if len(values) == 0 {
		return Empty
	}
	entries := make([]entry, 0, len(values))
	for v, t := range values {
		entries = append(entries, entry{v: v, t: t})
	}
	slices.SortFunc(entries, compareEntries)
	return Binding{entries: entries}
}

func compareEntries(a, b entry) int {
	return strings.Compare(string(a.v), string(b.v))
}

// search returns the position of v within entries, and if it is bound.
func (b Binding) search(v Var) (int, bool) {
	return slices.BinarySearchFunc(b.entries, v, func(e entry, v Var) int {
		return strings.Compare(string(e.v), string(v))
	})
}

// Get returns the term bound to v.
// The second return value indicates if v is bound.
func (b Binding) Get(v Var) (Term, bool) {
	index, ok := b.search(v)
	if !ok {
		var zero Term
		return zero, false
	}
	return b.entries[index].t, true
}

// Has checks if this binding has a value for v.
func (b Binding) Has(v Var) bool {
	_, ok := b.search(v)
	return ok
}

// Len returns the number of variables bound.
func (b Binding) Len() int {
	return len(b.entries)
}

// IsEmpty checks if this binding binds no variables.
func (b Binding) IsEmpty() bool {
	return len(b.entries) == 0
}

// Vars returns the variables bound in this binding, sorted by name.
func (b Binding) Vars() []Var {
	vars := make([]Var, len(b.entries))
	for i, e := range b.entries {
		vars[i] = e.v
	}
	return vars
}

// All iterates over all variable-term pairs of this binding, sorted by variable name.
func (b Binding) All() iter.Seq2[Var, Term] {
	return func(yield func(Var, Term) bool) {
		for _, e := range b.entries {
			if !yield(e.v, e.t) {
				return
			}
		}
	}
}

// Compatible checks if b and other agree on every variable bound in both.
// Bindings without common variables are always compatible.
func (b Binding) Compatible(other Binding) bool {
	i, j := 0, 0
	for i < len(b.entries) && j < len(other.entries) {
		switch c := compareEntries(b.entries[i], other.entries[j]); {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			if b.entries[i].t != other.entries[j].t {
				return false
			}
			i++
			j++
		}
	}
	return true
}

// Merge returns the union of the two bindings.
//
// The bindings are expected to be [Binding.Compatible].
// If they are not, the value from a wins.
func Merge(a, b Binding) Binding {
	switch {
	case len(b.entries) == 0:
		return a
	case len(a.entries) == 0:
		return b
	}

	entries := make([]entry, 0, len(a.entries)+len(b.entries))

	i, j := 0, 0
	for i < len(a.entries) && j < len(b.entries) {
		switch c := compareEntries(a.entries[i], b.entries[j]); {
		case c < 0:
			entries = append(entries, a.entries[i])
			i++
		case c > 0:
			entries = append(entries, b.entries[j])
			j++
		default:
			entries = append(entries, a.entries[i])
			i++
			j++
		}
	}
	entries = append(entries, a.entries[i:]...)
	entries = append(entries, b.entries[j:]...)

	return Binding{entries: entries}
}

// Equal checks if both bindings bind the same variables to the same terms.
func (b Binding) Equal(other Binding) bool {
	return slices.Equal(b.entries, other.entries)
}

// Hash returns a hash of the content of this binding.
// Equal bindings have equal hashes.
func (b Binding) Hash() uint64 {
	digest := xxhash.New()
	for _, e := range b.entries {
		_, _ = digest.WriteString(string(e.v))
		_, _ = digest.Write([]byte{0, byte(e.t.Kind)})
		_, _ = digest.WriteString(e.t.Value)
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(e.t.Datatype)
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(e.t.Language)
		_, _ = digest.Write([]byte{0})
	}
	return digest.Sum64()
}

// String formats this binding for debugging purposes.
func (b Binding) String() string {
	var builder strings.Builder
	builder.WriteString("{")
	for i, e := range b.entries {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(e.v.String())
		builder.WriteString("=")
		builder.WriteString(e.t.String())
	}
	builder.WriteString("}")
	return builder.String()
}
