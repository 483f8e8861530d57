//spellchecker:words quadsource
package quadsource

//spellchecker:words errors github bindjoin internal stats binding hashjoin joinkey progress
import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FAU-CDI/bindjoin/internal/stats"
	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/hashjoin"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
	"github.com/FAU-CDI/bindjoin/pkg/progress"
)

// progressInterval is the number of triples after which progress is reported
const progressInterval = 10_000

// Store holds triples in memory and evaluates patterns against them.
type Store struct {
	triples     []Token
	byPredicate map[binding.Term][]int // indexes into triples
}

// Len returns the number of triples in this store.
func (store *Store) Len() int {
	return len(store.triples)
}

// LoadFile is like Load, but reads N-Quads from the given path.
// The number of bytes read is reported to the rewritable of st.
func LoadFile(path string, st *stats.Stats) (store *Store, e error) {
	reader, err := os.Open(path) // #nosec G304 -- explicit parameter
	if err != nil {
		return nil, fmt.Errorf("failed to open path: %w", err)
	}
	defer func() {
		if e2 := reader.Close(); e2 != nil {
			e = errors.Join(e, fmt.Errorf("failed to close reader: %w", e2))
		}
	}()

	counter := &progress.Reader{Reader: reader, Prefix: "Loaded"}
	if rw := st.Rewritable(); rw != nil {
		counter.Writer = rw.Writer
		counter.FlushInterval = rw.FlushInterval
	}
	defer counter.Close()

	return Load(&QuadSource{Reader: counter}, st)
}

// Load reads all triples from source into a new store.
func Load(source Source, st *stats.Stats) (store *Store, e error) {
	if err := source.Open(); err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		if e2 := source.Close(); e2 != nil {
			e = errors.Join(e, fmt.Errorf("failed to close source: %w", e2))
		}
	}()

	store = &Store{
		byPredicate: make(map[binding.Term][]int),
	}
	for {
		token := source.Next()
		if errors.Is(token.Err, io.EOF) {
			break
		}
		if token.Err != nil {
			return nil, fmt.Errorf("failed to read triple %d: %w", len(store.triples), token.Err)
		}

		store.byPredicate[token.Predicate] = append(store.byPredicate[token.Predicate], len(store.triples))
		store.triples = append(store.triples, token)

		if count := len(store.triples); count%progressInterval == 0 {
			st.Advance(count, 0)
		}
	}

	st.Advance(len(store.triples), len(store.triples))
	st.LogDebug("loaded triples", "count", len(store.triples), "predicates", len(store.byPredicate))
	return store, nil
}

// MatchPattern returns a row for every triple matching pattern.
func (store *Store) MatchPattern(pattern Pattern) hashjoin.Table {
	var table hashjoin.Table
	consider := func(token Token) {
		if row, ok := pattern.Match(token); ok {
			table = append(table, row)
		}
	}

	if pattern.Predicate.IsVar() {
		for _, token := range store.triples {
			consider(token)
		}
		return table
	}

	for _, index := range store.byPredicate[pattern.Predicate.Term] {
		consider(store.triples[index])
	}
	return table
}

// Match evaluates a conjunction of patterns.
// The rows of each pattern are inner joined on their shared variables.
//
// An empty conjunction matches once with no variables bound.
func (store *Store) Match(patterns Patterns, opts hashjoin.Options) (hashjoin.Table, error) {
	result := hashjoin.Table{binding.Empty}
	vars := joinkey.Empty()

	for i, pattern := range patterns {
		rows := store.MatchPattern(pattern)
		current := Patterns{pattern}.Vars()

		var err error
		result, err = hashjoin.Collect(hashjoin.Join{
			Strategy: hashjoin.Inner,
			Key:      SharedKey(vars, current),
			Options:  opts,
		}.Run(result, rows))
		if err != nil {
			return nil, fmt.Errorf("failed to join pattern %s: %w", pattern, err)
		}

		vars = patterns[:i+1].Vars()
	}

	return result, nil
}
