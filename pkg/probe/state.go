// Package probe implements hash tables that hold the build side of a join.
//
// Each table moves through two states.
// While [Building], rows may be added using Put.
// The first lookup moves a table into the [Indexed] state, after which Put fails with [ErrFinalized].
//
//spellchecker:words probe
package probe

//spellchecker:words errors sync atomic github bindjoin binding imap
import (
	"errors"
	"sync/atomic"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/imap"
)

// State is the state of a probe table.
type State uint32

const (
	// Building indicates that rows may still be added to a table.
	Building State = iota
	// Indexed indicates that a table has been read from and is now read-only.
	Indexed
)

func (state State) String() string {
	switch state {
	case Building:
		return "building"
	case Indexed:
		return "indexed"
	default:
		return "invalid"
	}
}

// ErrFinalized is returned when attempting to put a row into a table that has already been read from.
var ErrFinalized = errors.New("probe: put after lookup")

// atomicState holds a State that can be accessed concurrently.
type atomicState struct {
	v atomic.Uint32
}

func (as *atomicState) Load() State {
	return State(as.v.Load())
}

// Freeze moves into the Indexed state and reports if this call caused the transition.
func (as *atomicState) Freeze() bool {
	return as.v.CompareAndSwap(uint32(Building), uint32(Indexed))
}

// Dictionary assigns ids to terms.
// Rows are bucketed by the ids of their values.
//
// It is implemented by [imap.IMap].
type Dictionary interface {
	// Add returns the id of term, assigning a new one if needed.
	Add(term binding.Term) (imap.ID, error)
	// Get returns the id of term, or ok = false if it has none.
	Get(term binding.Term) (id imap.ID, ok bool, err error)
}

var _ Dictionary = (*imap.IMap[binding.Term])(nil)
