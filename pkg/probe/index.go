//spellchecker:words probe
package probe

//spellchecker:words iter maps slices github bindjoin binding joinkey
import (
	"iter"
	"maps"
	"slices"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
)

// JoinIndex indexes a set of rows for a single key.
//
// Rows binding either all or none of the key variables are held in the main table.
// Rows binding a strict, non-empty subset S of the key are held in a skew table keyed by S.
type JoinIndex struct {
	key  *joinkey.Key
	rows []binding.Binding

	main     *HashProbeTable
	skew     map[string]*HashProbeTable
	skewKeys []*joinkey.Key // in order of creation
}

// newJoinIndex partitions rows into a new index for key.
func newJoinIndex(key *joinkey.Key, rows []binding.Binding, dict Dictionary) (*JoinIndex, error) {
	index := &JoinIndex{
		key:  key,
		rows: rows,

		main: NewHashProbeTable(key, dict),
		skew: make(map[string]*HashProbeTable),
	}

	for _, row := range rows {
		bits := joinkey.ToBitSet(key, row)
		if count := bits.Count(); count == 0 || count == bits.Len() {
			if err := index.main.Put(row); err != nil {
				return nil, err
			}
			continue
		}

		sub := joinkey.ToKey(key, bits)
		table, ok := index.skew[sub.ID()]
		if !ok {
			table = NewHashProbeTable(sub, dict)
			index.skew[sub.ID()] = table
			index.skewKeys = append(index.skewKeys, sub)
		}
		if err := table.Put(row); err != nil {
			return nil, err
		}
	}

	return index, nil
}

// Key returns the key of this index.
func (index *JoinIndex) Key() *joinkey.Key {
	return index.key
}

// Len returns the number of rows in this index.
func (index *JoinIndex) Len() int {
	return len(index.rows)
}

// MainTable returns the table holding rows that bind all or none of the key.
func (index *JoinIndex) MainTable() *HashProbeTable {
	return index.main
}

// SkewTablesByJoinKey returns a copy of the skew tables, indexed by the [joinkey.Key.ID] of their key.
func (index *JoinIndex) SkewTablesByJoinKey() map[string]*HashProbeTable {
	return maps.Clone(index.skew)
}

// SkewKeys returns the keys of all skew tables, in order of creation.
func (index *JoinIndex) SkewKeys() []*joinkey.Key {
	return slices.Clone(index.skewKeys)
}

// Candidates returns the rows of this index that may be compatible with probe.
// probe is expected to bind every variable of the key.
func (index *JoinIndex) Candidates(probe binding.Binding) (iter.Seq[binding.Binding], error) {
	seqs := make([]iter.Seq[binding.Binding], 0, 1+len(index.skewKeys))

	main, err := index.main.Candidates(probe)
	if err != nil {
		return nil, err
	}
	seqs = append(seqs, main)

	for _, key := range index.skewKeys {
		skew, err := index.skew[key.ID()].Candidates(probe)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, skew)
	}

	return func(yield func(binding.Binding) bool) {
		for _, seq := range seqs {
			for row := range seq {
				if !yield(row) {
					return
				}
			}
		}
	}, nil
}

// Values returns every row of this index in insertion order.
func (index *JoinIndex) Values() iter.Seq[binding.Binding] {
	return slices.Values(index.rows)
}
