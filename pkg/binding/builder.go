//spellchecker:words binding
package binding

//spellchecker:words errors slices
import (
	"errors"
	"fmt"
	"slices"
)

// ErrConflict is returned when a variable is bound to two different terms.
var ErrConflict = errors.New("variable bound to conflicting terms")

// Builder incrementally creates a Binding.
// The zero Builder is ready to use.
type Builder struct {
	entries []entry
	err     error
}

// Add binds v to t.
// Adding the same pair twice is permitted, binding v to a different term makes [Build] fail.
func (builder *Builder) Add(v Var, t Term) *Builder {
	if builder.err != nil {
		return builder
	}
	for _, e := range builder.entries {
		if e.v != v {
			continue
		}
		if e.t != t {
			builder.err = fmt.Errorf("%w: %s is %s and %s", ErrConflict, v, e.t, t)
		}
		return builder
	}
	builder.entries = append(builder.entries, entry{v: v, t: t})
	return builder
}

// Len returns the number of distinct variables added so far.
func (builder *Builder) Len() int {
	return len(builder.entries)
}

// Build returns the binding created by this builder.
// The builder is reset and may be re-used afterwards.
func (builder *Builder) Build() (Binding, error) {
	entries, err := builder.entries, builder.err
	builder.entries, builder.err = nil, nil

	if err != nil {
		return Empty, err
	}
	if len(entries) == 0 {
		return Empty, nil
	}

	slices.SortFunc(entries, compareEntries)
	return Binding{entries: entries}, nil
}
