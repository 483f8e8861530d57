// Package hashjoin implements inner and left joins of binding tables.
//
// One side of a join is loaded into a [probe.MultiHashProbeTable].
// Every row of the other side then probes the table, and is merged with every compatible candidate.
//
//spellchecker:words hashjoin
package hashjoin

//spellchecker:words errors iter github bindjoin binding joinkey probe
import (
	"errors"
	"fmt"
	"iter"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
	"github.com/FAU-CDI/bindjoin/pkg/probe"
)

// Table is a sequence of rows.
type Table []binding.Binding

// Strategy determines how rows without a match are treated.
type Strategy int

const (
	// Inner emits only merged rows.
	Inner Strategy = iota
	// Left additionally emits every left row without any compatible right row unchanged.
	Left
)

func (s Strategy) String() string {
	switch s {
	case Inner:
		return "(inner)"
	case Left:
		return "(left)"
	}
	return fmt.Sprintf("(%d)", int(s))
}

// BuildSide determines which side of a join is loaded into the probe table.
type BuildSide int

const (
	// BuildAuto builds the smaller side of an inner join, and the right side of a left join.
	BuildAuto BuildSide = iota
	BuildLeft
	BuildRight
)

// Condition is a filter on merged rows.
type Condition func(row binding.Binding) bool

var (
	// ErrConditions is returned when conditions are passed to an inner join.
	// Filtering inner join results is the job of a separate stage.
	ErrConditions = errors.New("hashjoin: conditions are not supported on inner joins")

	// ErrBuildSide is returned when a left join is asked to build its left side.
	ErrBuildSide = errors.New("hashjoin: left join must build the right side")
)

// Report holds information about a completed join.
type Report struct {
	Strategy Strategy
	Key      *joinkey.Key

	BuildLeft bool // whether the left side was the build side
	Build     int  // number of rows in the build side
	Probe     int  // number of rows in the probe side
	Output    int  // number of rows emitted

	Table probe.Stats
}

// Options configure a join.
type Options struct {
	// Probe is passed to the underlying probe table.
	Probe probe.Options

	// Report is called after every completed join.
	// It may be nil.
	Report func(Report)
}

// Join describes a join of two tables.
type Join struct {
	Strategy Strategy

	// Key holds the variables shared by both tables.
	// A nil or empty key is valid, but joins less efficiently.
	Key *joinkey.Key

	// Conditions are checked on every merged row of a left join.
	// A merged row that fails any condition is not emitted.
	Conditions []Condition

	Build   BuildSide
	Options Options
}

// Run joins left and right.
//
// The returned sequence yields each result row with a nil error.
// When an error occurs, it is yielded once with the zero Binding and the sequence ends.
// Results are in no particular order.
func (join Join) Run(left, right Table) iter.Seq2[binding.Binding, error] {
	return func(yield func(binding.Binding, error) bool) {
		if err := join.run(left, right, yield); err != nil {
			yield(binding.Binding{}, err)
		}
	}
}

func (join Join) run(left, right Table, yield func(binding.Binding, error) bool) error {
	if join.Strategy == Inner && len(join.Conditions) > 0 {
		return ErrConditions
	}

	buildLeft, err := join.buildLeft(left, right)
	if err != nil {
		return err
	}

	build, probeSide := right, left
	if buildLeft {
		build, probeSide = left, right
	}

	key := join.Key
	if key == nil {
		key = joinkey.Empty()
	}

	table, err := probe.NewMultiHashProbeTable(key, join.Options.Probe)
	if err != nil {
		return fmt.Errorf("failed to create probe table: %w", err)
	}
	defer table.Close()

	for _, row := range build {
		if err := table.Put(row); err != nil {
			return fmt.Errorf("failed to put row: %w", err)
		}
	}
	if err := table.Finalize(); err != nil {
		return fmt.Errorf("failed to index build side: %w", err)
	}

	output := 0
	for _, row := range probeSide {
		candidates, err := table.Candidates(row)
		if err != nil {
			return fmt.Errorf("failed to probe: %w", err)
		}

		matched := false
		for candidate := range candidates {
			if !row.Compatible(candidate) {
				continue
			}

			merged := binding.Merge(row, candidate)
			if !join.accept(merged) {
				continue
			}

			matched = true
			output++
			if !yield(merged, nil) {
				return nil
			}
		}

		if !matched && join.Strategy == Left {
			output++
			if !yield(row, nil) {
				return nil
			}
		}
	}

	if join.Options.Report != nil {
		join.Options.Report(Report{
			Strategy:  join.Strategy,
			Key:       key,
			BuildLeft: buildLeft,
			Build:     len(build),
			Probe:     len(probeSide),
			Output:    output,
			Table:     table.Stats(),
		})
	}
	return nil
}

// buildLeft decides if the left side is the build side.
func (join Join) buildLeft(left, right Table) (bool, error) {
	switch join.Build {
	case BuildLeft:
		if join.Strategy == Left {
			return false, ErrBuildSide
		}
		return true, nil
	case BuildRight:
		return false, nil
	default:
		return join.Strategy == Inner && len(left) < len(right), nil
	}
}

// accept checks if merged passes all conditions.
func (join Join) accept(merged binding.Binding) bool {
	for _, cond := range join.Conditions {
		if !cond(merged) {
			return false
		}
	}
	return true
}

// InnerJoin computes the inner join of left and right on the given key.
// Passing any conditions results in [ErrConditions].
func InnerJoin(key *joinkey.Key, left, right Table, conditions ...Condition) (Table, error) {
	return Collect(Join{Strategy: Inner, Key: key, Conditions: conditions}.Run(left, right))
}

// LeftJoin computes the left join of left and right on the given key.
// A merged row is only emitted if it passes all conditions.
func LeftJoin(key *joinkey.Key, left, right Table, conditions ...Condition) (Table, error) {
	return Collect(Join{Strategy: Left, Key: key, Conditions: conditions}.Run(left, right))
}

// Collect collects all rows of seq into a table.
// It stops at the first error.
func Collect(seq iter.Seq2[binding.Binding, error]) (Table, error) {
	var table Table
	for row, err := range seq {
		if err != nil {
			return nil, err
		}
		table = append(table, row)
	}
	return table, nil
}
