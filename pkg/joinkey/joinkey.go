// Package joinkey provides Key, the ordered set of variables two join operands are expected to share.
//
//spellchecker:words joinkey
package joinkey

//spellchecker:words strings github bindjoin binding tkw1536 pkglib lazy
import (
	"strings"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/tkw1536/pkglib/lazy"
)

// indexThreshold is the maximal length of a key for which IndexOf uses a linear scan.
// Longer keys use an auxiliary hash index.
const indexThreshold = 5

// Key is an ordered sequence of distinct variables.
//
// Keys are immutable and should always be passed by pointer.
// Use [Empty], [New] or a [Builder] to create a key; the zero value is not valid.
type Key struct {
	vars []binding.Var
	id   string // canonical identifier, see [Key.ID]

	index lazy.Lazy[map[binding.Var]int]
}

var empty = &Key{}

// Empty returns the key without any variables.
// It is always the same pointer.
func Empty() *Key {
	return empty
}

// New creates a new key from the given variables.
// Variables keep the order of their first occurrence, later duplicates are dropped.
//
// When vars contains no variables, returns [Empty].
func New(vars ...binding.Var) *Key {
	var builder Builder
	builder.AddAll(vars...)
	return builder.Build()
}

// Len returns the number of variables in this key.
func (key *Key) Len() int {
	return len(key.vars)
}

// At returns the variable at position i.
func (key *Key) At(i int) binding.Var {
	return key.vars[i]
}

// Vars returns a copy of the variables in this key.
func (key *Key) Vars() []binding.Var {
	return append([]binding.Var(nil), key.vars...)
}

// IndexOf returns the position of v within this key, or -1 if it is not contained.
func (key *Key) IndexOf(v binding.Var) int {
	if len(key.vars) <= indexThreshold {
		return key.scan(v)
	}

	index, ok := key.index.Get(key.makeIndex)[v]
	if !ok {
		return -1
	}
	return index
}

func (key *Key) scan(v binding.Var) int {
	for i, w := range key.vars {
		if v == w {
			return i
		}
	}
	return -1
}

func (key *Key) makeIndex() map[binding.Var]int {
	index := make(map[binding.Var]int, len(key.vars))
	for i, v := range key.vars {
		index[v] = i
	}
	return index
}

// Contains checks if v is part of this key.
func (key *Key) Contains(v binding.Var) bool {
	return key.IndexOf(v) >= 0
}

// Equal checks if two keys consist of the same variables in the same order.
func (key *Key) Equal(other *Key) bool {
	return key == other || key.id == other.id
}

// ID returns a string that uniquely identifies this key.
// Two keys are [Key.Equal] iff they have the same ID.
func (key *Key) ID() string {
	return key.id
}

// String formats this key as a parenthesized list of variables.
func (key *Key) String() string {
	var builder strings.Builder
	builder.WriteString("(")
	for i, v := range key.vars {
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(v.String())
	}
	builder.WriteString(")")
	return builder.String()
}

// Builder incrementally builds a key.
// The zero Builder is ready to use.
type Builder struct {
	vars []binding.Var
	seen map[binding.Var]struct{}
}

// Add appends v to the key being built, unless it was already added.
func (builder *Builder) Add(v binding.Var) *Builder {
	if builder.seen == nil {
		builder.seen = make(map[binding.Var]struct{})
	}
	if _, ok := builder.seen[v]; ok {
		return builder
	}
	builder.seen[v] = struct{}{}
	builder.vars = append(builder.vars, v)
	return builder
}

// AddAll is like Add, but adds each variable in order.
func (builder *Builder) AddAll(vars ...binding.Var) *Builder {
	for _, v := range vars {
		builder.Add(v)
	}
	return builder
}

// Len returns the number of distinct variables added so far.
func (builder *Builder) Len() int {
	return len(builder.vars)
}

// Build returns a new key holding the variables added so far.
// The builder may continue to be used afterwards; the returned key is not affected.
func (builder *Builder) Build() *Key {
	if len(builder.vars) == 0 {
		return empty
	}

	vars := append([]binding.Var(nil), builder.vars...)
	return &Key{
		vars: vars,
		id:   makeID(vars),
	}
}

// makeID builds the canonical identifier of a list of variables.
// Variable names never contain a NUL byte.
func makeID(vars []binding.Var) string {
	var builder strings.Builder
	for _, v := range vars {
		builder.WriteString(string(v))
		builder.WriteByte(0)
	}
	return builder.String()
}
