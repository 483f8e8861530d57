//spellchecker:words imap
package imap

//spellchecker:words errors
import (
	"errors"
)

// Memory implements HashMap using a built-in go map.
type Memory[Key comparable, Value any] struct {
	mp map[Key]Value
}

// MakeMemory makes a new memory instance.
func MakeMemory[Key comparable, Value any](size int) Memory[Key, Value] {
	return Memory[Key, Value]{
		mp: make(map[Key]Value, size),
	}
}

// IsNil checks if this memory has not been initialized.
func (ims Memory[Key, Value]) IsNil() bool {
	return ims.mp == nil
}

var errMemoryUninitialized = errors.New("map not initialized")

// Finalize marks this map as read-only.
// This is a no-op.
func (Memory[Key, Value]) Finalize() error {
	return nil
}

func (ims Memory[Key, Value]) Set(key Key, value Value) error {
	if ims.mp == nil {
		return errMemoryUninitialized
	}

	ims.mp[key] = value
	return nil
}

// Get returns the given value if it exists.
func (ims Memory[Key, Value]) Get(key Key) (Value, bool, error) {
	value, ok := ims.mp[key]
	return value, ok, nil
}

// GetZero returns the value associated with Key, or the zero value otherwise.
func (ims Memory[Key, Value]) GetZero(key Key) (Value, error) {
	return ims.mp[key], nil
}

func (ims Memory[Key, Value]) Has(key Key) (bool, error) {
	_, ok := ims.mp[key]
	return ok, nil
}

// Delete deletes the given key from this storage.
func (ims Memory[Key, Value]) Delete(key Key) error {
	delete(ims.mp, key)
	return nil
}

// Iterate calls f for all entries in Storage.
// there is no guarantee on order.
func (ims Memory[Key, Value]) Iterate(f func(Key, Value) error) error {
	for key, value := range ims.mp {
		if err := f(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Close closes this storage, deleting all values.
func (ims *Memory[Key, Value]) Close() error {
	ims.mp = nil
	return nil
}

func (ims Memory[Key, Value]) Count() (uint64, error) {
	return uint64(len(ims.mp)), nil
}

// MemoryMap holds forward and backward maps in memory.
// It implements Map.
type MemoryMap[Label comparable] struct {
	FStorage Memory[Label, ID]
	RStorage Memory[ID, Label]
}

func (me *MemoryMap[Label]) Forward() (HashMap[Label, ID], error) {
	if me.FStorage.IsNil() {
		me.FStorage = MakeMemory[Label, ID](0)
	}
	return &me.FStorage, nil
}

func (me *MemoryMap[Label]) Reverse() (HashMap[ID, Label], error) {
	if me.RStorage.IsNil() {
		me.RStorage = MakeMemory[ID, Label](0)
	}
	return &me.RStorage, nil
}
