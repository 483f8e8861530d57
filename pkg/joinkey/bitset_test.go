//spellchecker:words joinkey
package joinkey

//spellchecker:words math rand testing github bindjoin binding stretchr testify assert
import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/stretchr/testify/assert"
)

// row creates a binding that binds each variable to an integer
func row(vars ...binding.Var) binding.Binding {
	values := make(map[binding.Var]binding.Term, len(vars))
	for i, v := range vars {
		values[v] = binding.Integer(int64(i + 1))
	}
	return binding.FromMap(values)
}

func TestToBitSet(t *testing.T) {
	t.Parallel()

	key := New(vs("x", "y", "z")...)

	tests := []struct {
		name string
		key  *Key
		row  binding.Binding
		bits []uint
		list []binding.Var
	}{
		{"partial overlap", key, row(vs("y", "w")...), []uint{1}, vs("y")},
		{"empty binding", key, binding.Empty, nil, vs()},
		{"empty key", Empty(), row(vs("x", "y")...), nil, vs()},
		{"no overlap", key, row(vs("a", "b")...), nil, vs()},
		{"everything", key, row(vs("z", "y", "x", "w")...), []uint{0, 1, 2}, vs("x", "y", "z")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits := ToBitSet(tt.key, tt.row)
			assert.Equal(t, uint(tt.key.Len()), bits.Len())
			assert.Equal(t, uint(len(tt.bits)), bits.Count())
			for _, i := range tt.bits {
				assert.True(t, bits.Test(i), "bit %d", i)
			}
			assert.Equal(t, tt.list, ToList(tt.key, bits))
		})
	}
}

func TestToList_RoundTrip(t *testing.T) {
	t.Parallel()

	source := rand.New(rand.NewSource(42))
	universe := vs("a", "b", "c", "d", "e", "f", "g", "h", "i")

	for i := 0; i < 500; i++ {
		// random key and random binding over the same universe
		var builder Builder
		for _, v := range universe {
			if source.Intn(2) == 0 {
				builder.Add(v)
			}
		}
		key := builder.Build()

		values := make(map[binding.Var]binding.Term)
		for _, v := range universe {
			if source.Intn(2) == 0 {
				values[v] = binding.Literal(strconv.Itoa(source.Intn(10)))
			}
		}
		b := binding.FromMap(values)

		want := make([]binding.Var, 0)
		for _, v := range key.Vars() {
			if b.Has(v) {
				want = append(want, v)
			}
		}

		bits := ToBitSet(key, b)
		assert.Equal(t, want, ToList(key, bits), "key %s binding %s", key, b)
		assert.True(t, New(want...).Equal(ToKey(key, bits)))
	}
}

func TestToKey_Full(t *testing.T) {
	t.Parallel()

	key := New(vs("x", "y")...)
	assert.Same(t, key, ToKey(key, ToBitSet(key, row(vs("x", "y")...))))
	assert.Same(t, Empty(), ToKey(key, ToBitSet(key, binding.Empty)))
}
