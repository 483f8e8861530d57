//spellchecker:words imap
package imap

//spellchecker:words errors sync atomic
import (
	"errors"
	"sync"
	"sync/atomic"
)

// IMap holds forward and reverse mapping from Labels to IDs.
// An IMap may be read concurrently; however any operations which change internal state are not safe to access concurrently.
//
// The zero map is not ready for use; it should be initialized using a call to [IMap.Reset].
type IMap[Label comparable] struct {
	finalized atomic.Bool

	forward HashMap[Label, ID]
	reverse HashMap[ID, Label]

	id ID // last id inserted
}

// ErrFinalized is returned when attempting to insert a new label into a finalized map.
var ErrFinalized = errors.New("IMap is finalized")

// Reset resets this IMap to be empty, closing any previously opened files
func (mp *IMap[Label]) Reset(engine Map[Label]) error {
	if err := mp.Close(); err != nil {
		return err
	}

	var err error

	mp.forward, err = engine.Forward()
	if err != nil {
		return err
	}

	mp.reverse, err = engine.Reverse()
	if err != nil {
		err = errors.Join(err, mp.forward.Close())
		mp.forward = nil
		return err
	}

	mp.id.Reset()
	mp.finalized.Store(false)
	return nil
}

// Finalize indicates that no more new labels will be added.
// Calls to Add with existing labels continue to work.
func (mp *IMap[Label]) Finalize() error {
	if mp.finalized.Swap(true) {
		return ErrFinalized
	}

	var errs [2]error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		errs[0] = mp.forward.Finalize()
	}()

	go func() {
		defer wg.Done()
		errs[1] = mp.reverse.Finalize()
	}()

	wg.Wait()
	return errors.Join(errs[:]...)
}

// Add inserts label into this IMap and returns the corresponding id.
// When label already exists in this IMap, returns the existing ID.
func (mp *IMap[Label]) Add(label Label) (ID, error) {
	id, _, err := mp.AddNew(label)
	return id, err
}

// AddNew behaves like Add, except additionally returns a boolean indicating if the returned id existed previously.
func (mp *IMap[Label]) AddNew(label Label) (id ID, old bool, err error) {
	id, old, err = mp.forward.Get(label)
	if err != nil || old {
		return
	}

	if mp.finalized.Load() {
		return id, false, ErrFinalized
	}

	id = mp.id.Inc()
	if err := mp.forward.Set(label, id); err != nil {
		return id, false, err
	}
	if err := mp.reverse.Set(id, label); err != nil {
		return id, false, err
	}
	return id, false, nil
}

// Get returns the id of label.
// When the label has no associated id, returns ok = false and does not modify the state.
func (mp *IMap[Label]) Get(label Label) (id ID, ok bool, err error) {
	return mp.forward.Get(label)
}

// Forward returns the id corresponding to the given label.
//
// If the label is not contained in this map, the zero ID is returned.
// The zero ID is never returned for a valid id.
func (mp *IMap[Label]) Forward(label Label) (ID, error) {
	return mp.forward.GetZero(label)
}

// Reverse returns the label corresponding to the given id.
// When id is not contained in this map, the zero value of the label type is contained.
func (mp *IMap[Label]) Reverse(id ID) (Label, error) {
	return mp.reverse.GetZero(id)
}

// Count returns the number of labels in this map.
func (mp *IMap[Label]) Count() (uint64, error) {
	if mp.forward == nil {
		return 0, nil
	}
	return mp.forward.Count()
}

// Close closes any storages related to this IMap.
//
// Calling close multiple times results in err = nil.
func (mp *IMap[Label]) Close() error {
	var errs [2]error

	if mp.forward != nil {
		errs[0] = mp.forward.Close()
		mp.forward = nil
	}
	if mp.reverse != nil {
		errs[1] = mp.reverse.Close()
		mp.reverse = nil
	}

	return errors.Join(errs[:]...)
}
