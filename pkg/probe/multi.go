//spellchecker:words probe
package probe

//spellchecker:words errors iter slog maps sync github bindjoin binding imap joinkey
import (
	"errors"
	"io"
	"iter"
	"log/slog"
	"maps"
	"sync"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/imap"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
)

// Options configure a [MultiHashProbeTable].
type Options struct {
	// Engine stores the dictionary of terms.
	// A nil engine keeps terms in memory.
	Engine imap.Map[binding.Term]

	// Logger receives debug information on index creation.
	// A nil logger discards all output.
	Logger *slog.Logger
}

// Stats hold statistics about a MultiHashProbeTable.
type Stats struct {
	Rows       int // number of rows put
	Terms      uint64
	Indexes    int // number of join indexes
	SkewTables int // number of skew tables across all indexes
	Probes     int // number of calls to Candidates
}

// MultiHashProbeTable holds the build side of a join whose rows may bind different subsets of the join variables.
//
// Rows are buffered until the table is finalized.
// Then an index is built for each set of variables bound by a probe, the first time such a probe is seen.
//
// All methods may be called concurrently.
// A Put racing with Finalize either lands in the table or returns [ErrFinalized], rows are never dropped.
type MultiHashProbeTable struct {
	state  atomicState
	logger *slog.Logger

	initial *joinkey.Key
	scope   joinkey.Builder // grows while building
	buffer  []binding.Binding

	dict imap.IMap[binding.Term]

	finalize sync.Once
	errFinal error

	m        sync.Mutex // protects scope, buffer and the fields below
	scopeKey *joinkey.Key
	base     *JoinIndex
	indexes  map[string]*JoinIndex
	probes   int
}

// NewMultiHashProbeTable creates a new table with the given initial key.
// The initial key may be empty.
func NewMultiHashProbeTable(initial *joinkey.Key, opts Options) (*MultiHashProbeTable, error) {
	if initial == nil {
		initial = joinkey.Empty()
	}

	engine := opts.Engine
	if engine == nil {
		engine = &imap.MemoryMap[binding.Term]{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	table := &MultiHashProbeTable{
		logger:  logger,
		initial: initial,
		indexes: make(map[string]*JoinIndex),
	}
	table.scope.AddAll(initial.Vars()...)

	if err := table.dict.Reset(engine); err != nil {
		return nil, err
	}
	return table, nil
}

// State returns the state of this table.
func (table *MultiHashProbeTable) State() State {
	return table.state.Load()
}

// Put buffers a row for later indexing.
// Once the table has been finalized, returns [ErrFinalized].
func (table *MultiHashProbeTable) Put(row binding.Binding) error {
	table.m.Lock()
	defer table.m.Unlock()

	// Finalize freezes before it takes m to drain the buffer
	if table.state.Load() != Building {
		return ErrFinalized
	}

	for v, term := range row.All() {
		table.scope.Add(v)
		if _, err := table.dict.Add(term); err != nil {
			return err
		}
	}
	table.buffer = append(table.buffer, row)
	return nil
}

// Finalize ends the building phase and builds the index for the initial key.
// It is called automatically by the first call to Candidates.
//
// Calling Finalize more than once has no further effect.
func (table *MultiHashProbeTable) Finalize() error {
	table.finalize.Do(func() {
		table.state.Freeze()
		table.errFinal = table.doFinalize()
	})
	return table.errFinal
}

func (table *MultiHashProbeTable) doFinalize() error {
	table.m.Lock()
	defer table.m.Unlock()

	table.scopeKey = table.scope.Build()

	rows := table.buffer
	table.buffer = nil

	if err := table.dict.Finalize(); err != nil {
		return err
	}

	base, err := newJoinIndex(table.initial, rows, &table.dict)
	if err != nil {
		return err
	}
	table.base = base
	table.indexes[table.initial.ID()] = base

	table.logger.Debug("built base index", "key", table.initial, "scope", table.scopeKey, "rows", len(rows), "skew", len(base.skewKeys))
	return nil
}

var errClosed = errors.New("probe: table closed")

// Candidates returns the rows that may be compatible with probe.
// Every compatible row is returned; callers must check compatibility of the rows returned.
//
// If no index exists for the variables bound by probe, one is created.
func (table *MultiHashProbeTable) Candidates(probe binding.Binding) (iter.Seq[binding.Binding], error) {
	if err := table.Finalize(); err != nil {
		return nil, err
	}

	index, err := table.indexFor(probe)
	if err != nil {
		return nil, err
	}
	return index.Candidates(probe)
}

// indexFor returns the index for the variables bound by probe, creating it if needed.
func (table *MultiHashProbeTable) indexFor(probe binding.Binding) (*JoinIndex, error) {
	table.m.Lock()
	defer table.m.Unlock()

	if table.base == nil {
		return nil, errClosed
	}

	table.probes++

	key := joinkey.ToKey(table.scopeKey, joinkey.ToBitSet(table.scopeKey, probe))
	if index, ok := table.indexes[key.ID()]; ok {
		return index, nil
	}

	index, err := newJoinIndex(key, table.base.rows, &table.dict)
	if err != nil {
		return nil, err
	}
	table.indexes[key.ID()] = index

	table.logger.Debug("built join index", "key", key, "main", index.main.Len(), "skew", len(index.skewKeys))
	return index, nil
}

// Index returns the index for exactly the given key, if it has been built.
func (table *MultiHashProbeTable) Index(key *joinkey.Key) (*JoinIndex, bool) {
	table.m.Lock()
	defer table.m.Unlock()

	index, ok := table.indexes[key.ID()]
	return index, ok
}

// IndexesByJoinKeys returns a copy of all indexes built so far, indexed by the [joinkey.Key.ID] of their key.
func (table *MultiHashProbeTable) IndexesByJoinKeys() map[string]*JoinIndex {
	table.m.Lock()
	defer table.m.Unlock()

	return maps.Clone(table.indexes)
}

// ScopeKey returns the key holding every variable of the initial key and of all rows put so far.
func (table *MultiHashProbeTable) ScopeKey() *joinkey.Key {
	table.m.Lock()
	defer table.m.Unlock()

	if table.scopeKey == nil {
		return table.scope.Build()
	}
	return table.scopeKey
}

// Len returns the number of rows in this table.
func (table *MultiHashProbeTable) Len() int {
	table.m.Lock()
	defer table.m.Unlock()

	if table.base == nil {
		return len(table.buffer)
	}
	return table.base.Len()
}

// Stats returns statistics about this table.
func (table *MultiHashProbeTable) Stats() (stats Stats) {
	table.m.Lock()
	defer table.m.Unlock()

	stats.Rows = len(table.buffer)
	if table.base != nil {
		stats.Rows = table.base.Len()
	}
	stats.Terms, _ = table.dict.Count()
	stats.Indexes = len(table.indexes)
	for _, index := range table.indexes {
		stats.SkewTables += len(index.skewKeys)
	}
	stats.Probes = table.probes
	return stats
}

// Close releases all resources held by this table.
// Further calls to Candidates fail.
func (table *MultiHashProbeTable) Close() error {
	table.state.Freeze()
	table.finalize.Do(func() { table.errFinal = errClosed })

	table.m.Lock()
	defer table.m.Unlock()

	table.buffer = nil
	table.base = nil
	clear(table.indexes)

	return table.dict.Close()
}
