//spellchecker:words probe
package probe

//spellchecker:words errors iter slices github bindjoin binding imap joinkey
import (
	"errors"
	"iter"
	"slices"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/imap"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
)

// HashProbeTable indexes rows by their values for a fixed key.
//
// Rows binding every variable of the key are stored in the bucket for their values.
// Rows missing any key variable are unkeyed, and returned for every probe.
// Every row is additionally kept in insertion order, see [HashProbeTable.Values].
//
// A HashProbeTable performs no locking.
// Lookups may happen concurrently once the table is in the [Indexed] state.
type HashProbeTable struct {
	state atomicState

	key  *joinkey.Key
	dict Dictionary

	buckets map[string][]binding.Binding
	unkeyed []binding.Binding
	rows    []binding.Binding
}

// NewHashProbeTable creates a new empty table for the given key.
// Terms of rows are registered with dict.
func NewHashProbeTable(key *joinkey.Key, dict Dictionary) *HashProbeTable {
	return &HashProbeTable{
		key:     key,
		dict:    dict,
		buckets: make(map[string][]binding.Binding),
	}
}

// Key returns the key of this table.
func (table *HashProbeTable) Key() *joinkey.Key {
	return table.key
}

// State returns the state of this table.
func (table *HashProbeTable) State() State {
	return table.state.Load()
}

// Len returns the number of rows in this table.
func (table *HashProbeTable) Len() int {
	return len(table.rows)
}

// Buckets returns the number of distinct key values in this table.
func (table *HashProbeTable) Buckets() int {
	return len(table.buckets)
}

// Put adds row to this table.
// Once the table has been probed, returns [ErrFinalized].
func (table *HashProbeTable) Put(row binding.Binding) error {
	if table.state.Load() != Building {
		return ErrFinalized
	}

	bucket, ok, err := table.bucketOf(row, table.dict.Add)
	if err != nil {
		return err
	}

	if ok {
		table.buckets[bucket] = append(table.buckets[bucket], row)
	} else {
		table.unkeyed = append(table.unkeyed, row)
	}
	table.rows = append(table.rows, row)
	return nil
}

// Candidates returns the rows that may be compatible with probe.
// The first call moves the table into the [Indexed] state.
//
// When probe binds every key variable, these are the rows in the bucket of its values
// along with all unkeyed rows.
// Otherwise every row is a candidate.
func (table *HashProbeTable) Candidates(probe binding.Binding) (iter.Seq[binding.Binding], error) {
	table.state.Freeze()

	bucket, ok, err := table.bucketOf(probe, table.lookup)
	if err != nil {
		return nil, err
	}
	if !ok {
		if table.hasKey(probe) {
			// some value is unknown, so only unkeyed rows can match
			return slices.Values(table.unkeyed), nil
		}
		return slices.Values(table.rows), nil
	}

	return func(yield func(binding.Binding) bool) {
		for _, row := range table.buckets[bucket] {
			if !yield(row) {
				return
			}
		}
		for _, row := range table.unkeyed {
			if !yield(row) {
				return
			}
		}
	}, nil
}

// Values returns all rows in this table in insertion order.
func (table *HashProbeTable) Values() iter.Seq[binding.Binding] {
	return slices.Values(table.rows)
}

// hasKey checks if row binds every variable of the key.
func (table *HashProbeTable) hasKey(row binding.Binding) bool {
	for i := 0; i < table.key.Len(); i++ {
		if !row.Has(table.key.At(i)) {
			return false
		}
	}
	return true
}

// lookup is like dict.Get, but does not return the unknown ids.
func (table *HashProbeTable) lookup(term binding.Term) (imap.ID, error) {
	id, ok, err := table.dict.Get(term)
	if err == nil && !ok {
		return imap.ID{}, errUnknownTerm
	}
	return id, err
}

// errUnknownTerm indicates that a term has no id.
// It never leaves this package.
var errUnknownTerm = errors.New("unknown term")

// bucketOf returns the bucket of row using ids to resolve terms.
// ok is false when row does not bind the entire key, or when one of the terms is unknown.
func (table *HashProbeTable) bucketOf(row binding.Binding, ids func(binding.Term) (imap.ID, error)) (bucket string, ok bool, err error) {
	n := table.key.Len()
	buffer := make([]byte, 0, n*imap.IDLen)
	for i := 0; i < n; i++ {
		term, has := row.Get(table.key.At(i))
		if !has {
			return "", false, nil
		}
		id, err := ids(term)
		if err == errUnknownTerm {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		buffer = imap.AppendIDs(buffer, id)
	}
	return string(buffer), true, nil
}
