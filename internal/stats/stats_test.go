//spellchecker:words stats
package stats_test

//spellchecker:words bytes errors testing github bindjoin internal stats hashjoin probe stretchr testify assert require tkw1536 pkglib perf
import (
	"bytes"
	"errors"
	"testing"

	"github.com/FAU-CDI/bindjoin/internal/stats"
	"github.com/FAU-CDI/bindjoin/pkg/hashjoin"
	"github.com/FAU-CDI/bindjoin/pkg/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkw1536/pkglib/perf"
)

func TestStats_DoStage(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	st := stats.NewStats(&buffer, false)

	require.NoError(t, st.DoStage(stats.StageLoad, func() error {
		st.Advance(5, 10)

		current, ok := st.Current()
		require.True(t, ok)
		assert.Equal(t, stats.StageLoad, current.Stage)
		assert.Equal(t, 5, current.Count)
		assert.Equal(t, 10, current.Total)
		return nil
	}))

	_, running := st.Current()
	assert.False(t, running)

	errJoin := errors.New("join failed")
	assert.ErrorIs(t, st.DoStage(stats.StageJoin, func() error { return errJoin }), errJoin)

	stages := st.Stages()
	require.Len(t, stages, 2)
	assert.Equal(t, stats.StageLoad, stages[0].Stage)
	assert.Equal(t, 5, stages[0].Count)
	assert.NoError(t, stages[0].Err)
	assert.Equal(t, stats.StageJoin, stages[1].Stage)
	assert.ErrorIs(t, stages[1].Err, errJoin)

	output := buffer.String()
	assert.Contains(t, output, "stage=load")
	assert.Contains(t, output, "count=5")
	assert.Contains(t, output, "FAILED stage")
}

func TestStats_RecordJoin(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	st := stats.NewStats(&buffer, true)

	// joins outside of a stage are only logged
	st.RecordJoin(hashjoin.Report{Output: 100})

	require.NoError(t, st.DoStage(stats.StageJoin, func() error {
		st.RecordJoin(hashjoin.Report{Build: 4, Probe: 3, Output: 2, Table: probe.Stats{Indexes: 3, SkewTables: 2}})
		st.RecordJoin(hashjoin.Report{Build: 1, Probe: 1, Output: 1, Table: probe.Stats{Indexes: 1}})

		current, ok := st.Current()
		require.True(t, ok)
		assert.Len(t, current.Joins, 2)
		return nil
	}))

	stages := st.Stages()
	require.Len(t, stages, 1)
	assert.Len(t, stages[0].Joins, 2)
	assert.Equal(t, 3, stages[0].Output())

	indexes, skew := stages[0].Indexes()
	assert.Equal(t, 4, indexes)
	assert.Equal(t, 2, skew)

	output := buffer.String()
	assert.Contains(t, output, "msg=join")
	assert.Contains(t, output, "joins=2 output=3 indexes=4 skew=2")
}

func TestStats_Verbose(t *testing.T) {
	t.Parallel()

	var quiet, verbose bytes.Buffer
	stats.NewStats(&quiet, false).LogDebug("hidden")
	stats.NewStats(&verbose, true).LogDebug("shown")

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "shown")
}

func TestStats_Nil(t *testing.T) {
	t.Parallel()

	var st *stats.Stats

	called := false
	require.NoError(t, st.DoStage(stats.StageExport, func() error {
		called = true
		return nil
	}))
	assert.True(t, called)

	st.Advance(1, 2)
	st.Log("ignored")
	st.RecordJoin(hashjoin.Report{Output: 1})

	_, ok := st.Current()
	assert.False(t, ok)
	assert.Nil(t, st.Logger())
	assert.Nil(t, st.Rewritable())
	assert.Empty(t, st.Stages())
	assert.Equal(t, perf.Diff{}, st.Took())
}
