//spellchecker:words stats
package stats

//spellchecker:words github bindjoin hashjoin tkw1536 pkglib perf
import (
	"fmt"

	"github.com/FAU-CDI/bindjoin/pkg/hashjoin"
	"github.com/tkw1536/pkglib/perf"
)

// Stage names a step of a bindjoin run.
type Stage string

const (
	StageLoad          Stage = "load"
	StageEvaluateLeft  Stage = "evaluate/left"
	StageEvaluateRight Stage = "evaluate/right"
	StageJoin          Stage = "join"
	StageExport        Stage = "export"
)

// StageReport describes a single stage.
type StageReport struct {
	Stage Stage
	Err   error // error the stage failed with, if any

	Start perf.Snapshot
	End   perf.Snapshot // zero while the stage is running

	Count, Total int // progress, Total is 0 when unknown

	Joins []hashjoin.Report // joins completed during this stage
}

// Took returns the resources used by this stage.
func (report StageReport) Took() perf.Diff {
	return report.End.Sub(report.Start)
}

// Output returns the number of rows produced by the joins of this stage.
func (report StageReport) Output() (rows int) {
	for _, join := range report.Joins {
		rows += join.Output
	}
	return rows
}

// Indexes returns the number of indexes and skew tables built by the joins of this stage.
func (report StageReport) Indexes() (indexes, skew int) {
	for _, join := range report.Joins {
		indexes += join.Table.Indexes
		skew += join.Table.SkewTables
	}
	return indexes, skew
}

func (report StageReport) progress() string {
	switch {
	case report.Total > 0:
		return fmt.Sprintf("%s: %d/%d", report.Stage, report.Count, report.Total)
	default:
		return fmt.Sprintf("%s: %d", report.Stage, report.Count)
	}
}

// DoStage runs f as the given stage.
// The stage is logged when it starts and ends, together with a summary of the joins it performed.
//
// If st is nil, f is invoked directly.
func (st *Stats) DoStage(stage Stage, f func() error) error {
	if st == nil {
		return f()
	}

	st.m.Lock()
	st.current = &StageReport{Stage: stage, Start: perf.Now()}
	st.m.Unlock()
	st.Log("start", "stage", stage)

	err := f()

	st.m.Lock()
	report := *st.current
	report.End = perf.Now()
	report.Err = err
	st.finished = append(st.finished, report)
	st.current = nil
	st.m.Unlock()

	if st.rewritable != nil {
		st.rewritable.Close()
	}

	if err != nil {
		st.LogError("stage", err, "stage", stage, "took", report.Took())
		return err
	}

	fields := []any{"stage", stage, "took", report.Took()}
	if report.Count != 0 {
		fields = append(fields, "count", report.Count)
	}
	if len(report.Joins) > 0 {
		indexes, skew := report.Indexes()
		fields = append(fields, "joins", len(report.Joins), "output", report.Output(), "indexes", indexes, "skew", skew)
	}
	st.Log("end", fields...)
	return nil
}

// Advance updates the progress of the current stage.
// Outside of a stage, it has no effect.
func (st *Stats) Advance(count, total int) {
	if st == nil {
		return
	}

	st.m.Lock()
	if st.current == nil {
		st.m.Unlock()
		return
	}
	st.current.Count = count
	st.current.Total = total
	line := st.current.progress()
	st.m.Unlock()

	if st.rewritable != nil {
		st.rewritable.Write(line)
	}
}

// RecordJoin records a completed join in the current stage.
// It is suitable as a [hashjoin.Options] Report function.
func (st *Stats) RecordJoin(report hashjoin.Report) {
	if st == nil {
		return
	}

	st.m.Lock()
	if st.current != nil {
		st.current.Joins = append(st.current.Joins, report)
	}
	st.m.Unlock()

	st.LogDebug(
		"join",
		"strategy", report.Strategy,
		"key", report.Key,
		"buildLeft", report.BuildLeft,
		"build", report.Build,
		"probe", report.Probe,
		"output", report.Output,
		"indexes", report.Table.Indexes,
		"skew", report.Table.SkewTables,
	)
}

// Current returns a copy of the running stage.
// ok is false when no stage is running.
func (st *Stats) Current() (report StageReport, ok bool) {
	if st == nil {
		return report, false
	}

	st.m.Lock()
	defer st.m.Unlock()

	if st.current == nil {
		return report, false
	}
	report = *st.current
	report.Joins = append([]hashjoin.Report(nil), report.Joins...)
	return report, true
}

// Stages returns reports of all finished stages in order.
func (st *Stats) Stages() []StageReport {
	if st == nil {
		return nil
	}

	st.m.Lock()
	defer st.m.Unlock()

	return append([]StageReport(nil), st.finished...)
}

// Took returns the resources used from the start of the first to the end of the last finished stage.
func (st *Stats) Took() perf.Diff {
	stages := st.Stages()
	if len(stages) == 0 {
		var zero perf.Diff
		return zero
	}
	return stages[len(stages)-1].End.Sub(stages[0].Start)
}
