//spellchecker:words hashjoin
package hashjoin_test

//spellchecker:words math rand strconv testing github bindjoin internal bindingtest binding hashjoin joinkey stretchr testify assert require
import (
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"github.com/FAU-CDI/bindjoin/internal/bindingtest"
	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/hashjoin"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var row = bindingtest.Row

func ExampleInnerJoin() {
	alice := binding.IRI("http://example.com/alice")
	bob := binding.IRI("http://example.com/bob")

	people := hashjoin.Table{
		row("s", alice, "name", "Alice"),
		row("s", bob, "name", "Bob"),
	}
	ages := hashjoin.Table{
		row("s", alice, "age", 42),
	}

	result, err := hashjoin.InnerJoin(joinkey.New("s"), people, ages)
	fmt.Println(err)
	for _, r := range result {
		fmt.Println(r)
	}
	// Output: <nil>
	// {?age="42"^^<http://www.w3.org/2001/XMLSchema#integer>, ?name="Alice", ?s=<http://example.com/alice>}
}

// nestedLoop computes a join by comparing every pair of rows
func nestedLoop(strategy hashjoin.Strategy, left, right hashjoin.Table, conditions ...hashjoin.Condition) hashjoin.Table {
	var result hashjoin.Table
	for _, l := range left {
		matched := false
	candidates:
		for _, r := range right {
			if !l.Compatible(r) {
				continue
			}
			merged := binding.Merge(l, r)
			for _, cond := range conditions {
				if !cond(merged) {
					continue candidates
				}
			}
			matched = true
			result = append(result, merged)
		}
		if !matched && strategy == hashjoin.Left {
			result = append(result, l)
		}
	}
	return result
}

// randomTable generates a table of n rows with values over vars
func randomTable(source *rand.Rand, n int, vars ...string) hashjoin.Table {
	table := make(hashjoin.Table, n)
	for i := range table {
		values := make(map[binding.Var]binding.Term)
		for _, v := range vars {
			// leave some variables unbound
			if source.Intn(4) == 0 {
				continue
			}
			values[binding.Var(v)] = binding.Integer(int64(source.Intn(3)))
		}
		table[i] = binding.FromMap(values)
	}
	return table
}

func TestInnerJoin_Commutative(t *testing.T) {
	t.Parallel()

	source := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		left := randomTable(source, source.Intn(20), "x", "y", "a")
		right := randomTable(source, source.Intn(20), "x", "y", "b")
		key := joinkey.New("x", "y")

		lr, err := hashjoin.InnerJoin(key, left, right)
		require.NoError(t, err)
		rl, err := hashjoin.InnerJoin(key, right, left)
		require.NoError(t, err)

		bindingtest.EqualMultiset(t, lr, rl, "round %d", i)
		bindingtest.EqualMultiset(t, nestedLoop(hashjoin.Inner, left, right), lr, "round %d", i)

		// the build side does not matter
		for _, build := range []hashjoin.BuildSide{hashjoin.BuildLeft, hashjoin.BuildRight} {
			got, err := hashjoin.Collect(hashjoin.Join{Key: key, Build: build}.Run(left, right))
			require.NoError(t, err)
			bindingtest.EqualMultiset(t, lr, got, "round %d build %d", i, build)
		}
	}
}

func TestInnerJoin_Identity(t *testing.T) {
	t.Parallel()

	source := rand.New(rand.NewSource(1))
	table := randomTable(source, 15, "x", "y")
	identity := hashjoin.Table{binding.Empty}

	for i, key := range []*joinkey.Key{nil, joinkey.Empty(), joinkey.New("x"), joinkey.New("x", "y")} {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			got, err := hashjoin.InnerJoin(key, table, identity)
			require.NoError(t, err)
			bindingtest.EqualMultiset(t, table, got)

			got, err = hashjoin.InnerJoin(key, identity, table)
			require.NoError(t, err)
			bindingtest.EqualMultiset(t, table, got)
		})
	}
}

func TestInnerJoin_RejectsConditions(t *testing.T) {
	t.Parallel()

	always := func(binding.Binding) bool { return true }

	_, err := hashjoin.InnerJoin(joinkey.New("x"), hashjoin.Table{row("x", 1)}, hashjoin.Table{row("x", 1)}, always)
	assert.ErrorIs(t, err, hashjoin.ErrConditions)

	// the error is the only thing emitted
	count := 0
	for r, err := range (hashjoin.Join{Conditions: []hashjoin.Condition{always}}).Run(hashjoin.Table{row("x", 1)}, hashjoin.Table{row("x", 1)}) {
		count++
		assert.True(t, r.IsEmpty())
		assert.ErrorIs(t, err, hashjoin.ErrConditions)
	}
	assert.Equal(t, 1, count)
}

func TestInnerJoin_CrossProduct(t *testing.T) {
	t.Parallel()

	left := hashjoin.Table{row("a", 1), row("a", 2), row("a", 3)}
	right := hashjoin.Table{row("b", 1), row("b", 2)}

	want := make(hashjoin.Table, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			want = append(want, binding.Merge(l, r))
		}
	}

	for _, key := range []*joinkey.Key{joinkey.Empty(), joinkey.New("c")} {
		got, err := hashjoin.InnerJoin(key, left, right)
		require.NoError(t, err)
		bindingtest.EqualMultiset(t, want, got, "key %s", key)
	}
}

func TestInnerJoin_Multiplicity(t *testing.T) {
	t.Parallel()

	build := hashjoin.Table{row("x", 1, "y", 2), row("x", 1, "y", 2), row("x", 2, "y", 2)}
	probe := hashjoin.Table{row("x", 1, "z", "3")}

	for _, side := range []hashjoin.BuildSide{hashjoin.BuildLeft, hashjoin.BuildRight} {
		got, err := hashjoin.Collect(hashjoin.Join{Key: joinkey.New("x"), Build: side}.Run(probe, build))
		require.NoError(t, err)
		bindingtest.EqualMultiset(t, hashjoin.Table{
			row("x", 1, "y", 2, "z", "3"),
			row("x", 1, "y", 2, "z", "3"),
		}, got)
	}
}

func TestLeftJoin_PreservesUnmatched(t *testing.T) {
	t.Parallel()

	left := hashjoin.Table{row("x", 1), row("x", 2), row("y", 5)}
	right := hashjoin.Table{row("x", 1, "z", 10), row("x", 1, "z", 11)}

	got, err := hashjoin.LeftJoin(joinkey.New("x"), left, right)
	require.NoError(t, err)

	bindingtest.EqualMultiset(t, hashjoin.Table{
		row("x", 1, "z", 10),
		row("x", 1, "z", 11),
		row("x", 2),
		row("y", 5, "x", 1, "z", 10),
		row("y", 5, "x", 1, "z", 11),
	}, got)

	// swapping sides changes the result
	swapped, err := hashjoin.LeftJoin(joinkey.New("x"), right, left)
	require.NoError(t, err)
	bindingtest.EqualMultiset(t, hashjoin.Table{
		row("x", 1, "z", 10),
		row("x", 1, "z", 10, "y", 5),
		row("x", 1, "z", 11),
		row("x", 1, "z", 11, "y", 5),
	}, swapped)
}

func TestLeftJoin_Random(t *testing.T) {
	t.Parallel()

	source := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		left := randomTable(source, source.Intn(20), "x", "a")
		right := randomTable(source, source.Intn(20), "x", "b")

		got, err := hashjoin.LeftJoin(joinkey.New("x"), left, right)
		require.NoError(t, err)
		bindingtest.EqualMultiset(t, nestedLoop(hashjoin.Left, left, right), got, "round %d", i)
	}
}

func TestLeftJoin_Conditions(t *testing.T) {
	t.Parallel()

	// only keep merged rows where b is not 11
	notEleven := func(row binding.Binding) bool {
		value, ok := row.Get("b")
		return !ok || value != binding.Integer(11)
	}

	left := hashjoin.Table{row("x", 1, "a", 1), row("x", 2, "a", 2)}
	right := hashjoin.Table{row("x", 1, "b", 10), row("x", 2, "b", 11)}

	got, err := hashjoin.LeftJoin(joinkey.New("x"), left, right, notEleven)
	require.NoError(t, err)

	want := hashjoin.Table{
		row("x", 1, "a", 1, "b", 10),
		row("x", 2, "a", 2),
	}
	bindingtest.EqualMultiset(t, want, got)
	bindingtest.EqualMultiset(t, nestedLoop(hashjoin.Left, left, right, notEleven), got)
}

func TestLeftJoin_BuildLeft(t *testing.T) {
	t.Parallel()

	_, err := hashjoin.Collect(hashjoin.Join{Strategy: hashjoin.Left, Build: hashjoin.BuildLeft}.Run(hashjoin.Table{row("x", 1)}, nil))
	assert.ErrorIs(t, err, hashjoin.ErrBuildSide)
}

func TestJoin_Report(t *testing.T) {
	t.Parallel()

	var reports []hashjoin.Report
	join := hashjoin.Join{
		Key: joinkey.New("x"),
		Options: hashjoin.Options{
			Report: func(r hashjoin.Report) { reports = append(reports, r) },
		},
	}

	left := hashjoin.Table{row("x", 1)}
	right := hashjoin.Table{row("x", 1, "y", 1), row("x", 1, "y", 2), row("x", 3)}

	got, err := hashjoin.Collect(join.Run(left, right))
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Len(t, reports, 1)
	report := reports[0]
	assert.Equal(t, hashjoin.Inner, report.Strategy)
	assert.True(t, report.BuildLeft)
	assert.Equal(t, 1, report.Build)
	assert.Equal(t, 3, report.Probe)
	assert.Equal(t, 2, report.Output)
	assert.Equal(t, 1, report.Table.Rows)
	assert.Equal(t, 3, report.Table.Probes)
}

func TestJoin_StopEarly(t *testing.T) {
	t.Parallel()

	reported := false
	join := hashjoin.Join{
		Options: hashjoin.Options{Report: func(hashjoin.Report) { reported = true }},
	}

	left := hashjoin.Table{row("a", 1), row("a", 2)}
	right := hashjoin.Table{row("b", 1), row("b", 2)}

	count := 0
	for _, err := range join.Run(left, right) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
	assert.False(t, reported)
}

func TestStrategy_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(inner)", hashjoin.Inner.String())
	assert.Equal(t, "(left)", hashjoin.Left.String())
	assert.Equal(t, "(7)", hashjoin.Strategy(7).String())
}
