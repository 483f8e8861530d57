//spellchecker:words joinkey
package joinkey

//spellchecker:words github bindjoin binding bits blooms bitset
import (
	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/bits-and-blooms/bitset"
)

// ToBitSet records which variables of key are bound in b.
//
// The returned set has length key.Len(), bit i is set iff b binds key.At(i).
func ToBitSet(key *Key, b binding.Binding) *bitset.BitSet {
	bits := bitset.New(uint(key.Len()))

	// iterate over the smaller of the two
	if b.Len() < key.Len() {
		for v := range b.All() {
			if i := key.IndexOf(v); i >= 0 {
				bits.Set(uint(i))
			}
		}
		return bits
	}

	for i, v := range key.vars {
		if b.Has(v) {
			bits.Set(uint(i))
		}
	}
	return bits
}

// ToList returns the variables of key whose bit is set in bits, in key order.
// It is the inverse of [ToBitSet].
func ToList(key *Key, bits *bitset.BitSet) []binding.Var {
	vars := make([]binding.Var, 0, bits.Count())
	for i, ok := bits.NextSet(0); ok && i < uint(key.Len()); i, ok = bits.NextSet(i + 1) {
		vars = append(vars, key.vars[i])
	}
	return vars
}

// ToKey is like ToList, but returns a new key.
// When every bit is set, key itself is returned.
func ToKey(key *Key, bits *bitset.BitSet) *Key {
	if bits.Count() == uint(key.Len()) {
		return key
	}
	return New(ToList(key, bits)...)
}
