//spellchecker:words imap
package imap

//spellchecker:words bytes math rand reflect testing
import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
)

func ExampleID() {
	// create a new id -- which isn't valid
	var id ID
	fmt.Println(id)
	fmt.Println(id.Valid())

	// increment the id -- it is now valid
	fmt.Println(id.Inc())
	fmt.Println(id.Valid())

	// create the value 10
	var ten ID
	for i := 0; i < 10; i++ {
		ten.Inc()
	}

	fmt.Println(id.Less(ten))

	// Output: ID(0)
	// false
	// ID(1)
	// true
	// true
}

// maximum number for the ID "torture tests"
const testIDSmall = (1 << (8 + (8 / 2))) // use 1.5 bytes

func TestID_Inc(t *testing.T) {
	t.Parallel()

	var id ID
	for i := 0; i < 1<<20; i++ {
		if got := int(id.Uint32()); got != i {
			t.Fatalf("Uint32() after %d increments = %d", i, got)
		}
		if got := id.Valid(); got != (i != 0) {
			t.Fatalf("Valid() after %d increments = %v", i, got)
		}
		id.Inc()
	}
}

func TestID_IncOverflow(t *testing.T) {
	t.Parallel()

	id := ID{0xFF, 0xFF, 0xFF, 0xFE}
	id.Inc()

	defer func() {
		if recover() == nil {
			t.Error("Inc() did not panic on overflow")
		}
	}()
	id.Inc()
}

func BenchmarkID_Inc(b *testing.B) {
	var id ID
	for i := 0; i < b.N; i++ {
		id.Reset()
		for j := 0; j < testIDSmall; j++ {
			id.Inc()
		}
	}
}

// Test that the order of ids behaves as expected.
func TestID_Order(t *testing.T) {
	t.Parallel()

	ids := make([]ID, testIDSmall)
	for i := 1; i < len(ids); i++ {
		ids[i] = ids[i-1]
		ids[i].Inc()
	}

	for i := 0; i < len(ids); i += 7 {
		bytesI, _ := MarshalID(ids[i])
		for j := 0; j < len(ids); j += 5 {
			bytesJ, _ := MarshalID(ids[j])

			if got, want := ids[i].Less(ids[j]), i < j; got != want {
				t.Errorf("id(%d) < id(%d) = %v, want %v", i, j, got, want)
			}

			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := bytes.Compare(bytesI, bytesJ); got != want {
				t.Errorf("compare(id(%d), id(%d)) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestAppendIDs(t *testing.T) {
	t.Parallel()

	reader := rand.New(rand.NewSource(1000))

	for n := 1; n < 100; n++ {
		ids := make([]ID, n)
		for i := range ids {
			for k := reader.Intn(1000); k > 0; k-- {
				ids[i].Inc()
			}
		}

		encoded := AppendIDs(nil, ids...)
		if len(encoded) != n*IDLen {
			t.Fatalf("AppendIDs() returned %d bytes, want %d", len(encoded), n*IDLen)
		}

		for i := range ids {
			var got ID
			if err := UnmarshalID(&got, encoded[i*IDLen:(i+1)*IDLen]); err != nil {
				t.Fatalf("UnmarshalID() returned error %s", err)
			}
			if got != ids[i] {
				t.Errorf("UnmarshalID() got = %s, want = %s", got, ids[i])
			}
		}
	}

	var id ID
	if err := UnmarshalID(&id, []byte{1, 2}); err == nil {
		t.Error("UnmarshalID() accepted a short slice")
	}
}
