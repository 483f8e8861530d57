package exporter

//spellchecker:words sync github bindjoin binding joinkey
import (
	"sync"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
)

// Map implements an exporter that stores rows in memory.
type Map struct {
	Vars *joinkey.Key
	Rows []binding.Binding
	l    sync.Mutex
}

// Begin signals that rows with the given variables will be transmitted
func (mp *Map) Begin(vars *joinkey.Key) error {
	mp.l.Lock()
	defer mp.l.Unlock()
	mp.Vars = vars
	mp.Rows = nil
	return nil
}

// Add adds a single row
func (mp *Map) Add(row binding.Binding) error {
	mp.l.Lock()
	defer mp.l.Unlock()
	mp.Rows = append(mp.Rows, row)
	return nil
}

func (mp *Map) End() error   { return nil }
func (mp *Map) Close() error { return nil }
