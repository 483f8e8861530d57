//spellchecker:words imap
package imap_test

//spellchecker:words errors strconv testing github bindjoin imap
import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/FAU-CDI/bindjoin/pkg/imap"
)

func ExampleIMap() {
	var mp imap.IMap[string]
	mp.Reset(&imap.MemoryMap[string]{})
	defer mp.Close()

	lid := func(prefix string) func(id imap.ID, err error) {
		return func(id imap.ID, err error) {
			fmt.Println(prefix, id, err)
		}
	}

	lstr := func(prefix string) func(value string, err error) {
		return func(value string, err error) {
			fmt.Println(prefix, value, err)
		}
	}

	lid("add")(mp.Add("hello"))
	lid("add")(mp.Add("world"))
	lid("add<again>")(mp.Add("hello"))

	lid("get")(mp.Forward("world"))
	lid("get")(mp.Forward("earth"))

	var id imap.ID
	lstr("reverse")(mp.Reverse(id.Inc()))
	lstr("reverse")(mp.Reverse(id.Inc()))

	mp.Finalize()
	lid("add<final>")(mp.Add("hello"))
	lid("add<final>")(mp.Add("earth"))

	// Output: add ID(1) <nil>
	// add ID(2) <nil>
	// add<again> ID(1) <nil>
	// get ID(2) <nil>
	// get ID(0) <nil>
	// reverse hello <nil>
	// reverse world <nil>
	// add<final> ID(1) <nil>
	// add<final> ID(0) IMap is finalized
}

// mapTest performs a test for a given engine
func mapTest[Label comparable](t *testing.T, engine imap.Map[Label], label func(i int) Label, N int) {
	t.Helper()

	var mp imap.IMap[Label]
	if err := mp.Reset(engine); err != nil {
		t.Fatalf("Reset returned error %s", err)
	}
	defer mp.Close()

	// add every label twice
	for round := 0; round < 2; round++ {
		for i := 0; i < N; i++ {
			id, err := mp.Add(label(i))
			if err != nil {
				t.Fatalf("Add returned error %s", err)
			}
			if got, want := int(id.Uint32()), i+1; got != want {
				t.Errorf("Add() got id = %s, want = %d", id, want)
			}
		}
	}

	if count, err := mp.Count(); err != nil || count != uint64(N) {
		t.Errorf("Count() = %d, %v, want %d", count, err, N)
	}

	if err := mp.Finalize(); err != nil {
		t.Fatalf("Finalize() returned error %s", err)
	}

	// check that forward and reverse mappings work
	var id imap.ID
	for i := 0; i < N; i++ {
		id.Inc()

		got, ok, err := mp.Get(label(i))
		if err != nil || !ok || got != id {
			t.Errorf("Get(%d) = %s, %v, %v, want = %s", i, got, ok, err, id)
		}

		back, err := mp.Reverse(id)
		if err != nil || back != label(i) {
			t.Errorf("Reverse(%s) = %v, %v, want = %v", id, back, err, label(i))
		}
	}

	if _, ok, err := mp.Get(label(N)); ok || err != nil {
		t.Errorf("Get(%d) = _, %v, %v, want missing", N, ok, err)
	}
	if _, err := mp.Add(label(N)); !errors.Is(err, imap.ErrFinalized) {
		t.Errorf("Add() after Finalize returned %v, want ErrFinalized", err)
	}
}

func stringLabel(i int) string {
	return strconv.Itoa(i)
}
