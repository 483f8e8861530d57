// Command bindjoin evaluates two conjunctions of triple patterns over an nquads file and joins their solutions.
//
//spellchecker:words bindjoin
package main

//spellchecker:words errors flag github bindjoin internal exporter quadsource stats hashjoin joinkey probe progress profile
import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/FAU-CDI/bindjoin"
	"github.com/FAU-CDI/bindjoin/internal/exporter"
	"github.com/FAU-CDI/bindjoin/internal/quadsource"
	"github.com/FAU-CDI/bindjoin/internal/stats"
	"github.com/FAU-CDI/bindjoin/pkg/hashjoin"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
	"github.com/FAU-CDI/bindjoin/pkg/probe"
	"github.com/FAU-CDI/bindjoin/pkg/progress"
	"github.com/pkg/profile"
)

// cspell:words nquads

const usage = "Usage: bindjoin [-help] [...flags] /path/to/nquads LEFT-PATTERNS RIGHT-PATTERNS"

var (
	errMultipleOutputs = errors.New("at most one of -sqlite, -mysql and -json may be given")
	errUnknownBuild    = errors.New("-build must be one of 'auto', 'left' or 'right'")
)

func main() {
	// create a new status
	st := stats.NewStats(os.Stderr, verbose)

	if debugProfile != "" {
		defer profile.Start(profile.ProfilePath(debugProfile)).Stop()
	}

	if debugServer != "" {
		go listenDebug(st)
	}

	var selected int
	for _, value := range []string{sqlite, mysql} {
		if value != "" {
			selected++
		}
	}
	if jsonOutput {
		selected++
	}
	if selected > 1 {
		st.Log(usage)
		st.LogFatal("parse arguments", errMultipleOutputs)
	}

	build, err := parseBuild(buildSide)
	if err != nil {
		st.Log(usage)
		st.LogFatal("parse arguments", err)
	}

	// find the paths
	nqp, leftSource, rightSource, err := bindjoin.FindSource(nArgs...)
	if err != nil {
		st.Log(usage)
		st.LogFatal("find source", err)
	}

	left, err := quadsource.ParsePatterns(leftSource)
	if err != nil {
		st.LogFatal("parse left patterns", err)
	}
	right, err := quadsource.ParsePatterns(rightSource)
	if err != nil {
		st.LogFatal("parse right patterns", err)
	}

	if cache != "" {
		st.Log("caching dictionaries on-disk", "path", cache)
	}

	opts := hashjoin.Options{
		Probe: probe.Options{
			Engine: quadsource.NewEngine(cache),
			Logger: st.Logger(),
		},
		Report: st.RecordJoin,
	}

	// load the data
	var store *quadsource.Store
	if err := st.DoStage(stats.StageLoad, func() (err error) {
		store, err = quadsource.LoadFile(nqp, st)
		return err
	}); err != nil {
		st.LogFatal("load nquads", err)
	}

	// evaluate both sides
	var leftTable, rightTable hashjoin.Table
	if err := st.DoStage(stats.StageEvaluateLeft, func() (err error) {
		leftTable, err = store.Match(left, opts)
		return err
	}); err != nil {
		st.LogFatal("evaluate left patterns", err)
	}
	if err := st.DoStage(stats.StageEvaluateRight, func() (err error) {
		rightTable, err = store.Match(right, opts)
		return err
	}); err != nil {
		st.LogFatal("evaluate right patterns", err)
	}

	// join them
	join := hashjoin.Join{
		Strategy: hashjoin.Inner,
		Key:      quadsource.SharedKey(left.Vars(), right.Vars()),
		Build:    build,
		Options:  opts,
	}
	if optional {
		join.Strategy = hashjoin.Left
	}
	st.Log("joining", "strategy", join.Strategy, "key", join.Key, "left", len(leftTable), "right", len(rightTable))

	var result hashjoin.Table
	if err := st.DoStage(stats.StageJoin, func() (err error) {
		result, err = hashjoin.Collect(join.Run(leftTable, rightTable))
		return err
	}); err != nil {
		st.LogFatal("join", err)
	}
	st.Log("finished join", "rows", len(result))

	// and export
	var vars joinkey.Builder
	vars.AddAll(left.Vars().Vars()...).AddAll(right.Vars().Vars()...)

	defer func() {
		st.Log("done", "took", st.Took())
	}()

	switch {
	case mysql != "":
		doSQL(result, vars.Build(), "mysql", mysql, st)
	case sqlite != "":
		doSQL(result, vars.Build(), "sqlite", sqlite, st)
	default:
		doWriter(result, vars.Build(), st)
	}
}

func parseBuild(value string) (hashjoin.BuildSide, error) {
	switch value {
	case "", "auto":
		return hashjoin.BuildAuto, nil
	case "left":
		return hashjoin.BuildLeft, nil
	case "right":
		return hashjoin.BuildRight, nil
	default:
		return hashjoin.BuildAuto, errUnknownBuild
	}
}

// doWriter writes result to standard output or the output file.
func doWriter(result hashjoin.Table, vars *joinkey.Key, st *stats.Stats) {
	var out io.Writer = os.Stdout
	if output != "" {
		file, err := os.Create(output) // #nosec G304 -- explicit flag
		if err != nil {
			st.LogFatal("create output", err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				st.LogError("close output", err)
			}
		}()

		counter := &progress.Writer{Writer: file, Prefix: "Exported"}
		if rw := st.Rewritable(); rw != nil {
			counter.Rewritable.Writer = rw.Writer
			counter.FlushInterval = rw.FlushInterval
		}
		defer counter.Close()
		out = counter
	}

	var ex exporter.Exporter = &exporter.Text{Writer: out}
	if jsonOutput {
		ex = &exporter.JSON{Writer: out}
	}

	if err := st.DoStage(stats.StageExport, func() error {
		return export(ex, result, vars, st)
	}); err != nil {
		st.LogFatal("export", err)
	}
}

// export sends all rows of result to ex and closes it.
func export(ex exporter.Exporter, result hashjoin.Table, vars *joinkey.Key, st *stats.Stats) (e error) {
	defer func() {
		if e2 := ex.Close(); e2 != nil {
			e = errors.Join(e, fmt.Errorf("failed to close exporter: %w", e2))
		}
	}()

	if err := ex.Begin(vars); err != nil {
		return err
	}
	for i, row := range result {
		if err := ex.Add(row); err != nil {
			return err
		}
		st.Advance(i+1, len(result))
	}
	return ex.End()
}

// ===================

var nArgs []string

var optional bool
var buildSide = "auto"
var cache string

var sqlite string
var mysql string
var sqlTable = exporter.DefaultTable
var jsonOutput bool
var output string

var verbose bool
var debugServer string
var debugProfile string

func init() {
	flag.BoolVar(&optional, "optional", optional, "Keep left rows without a matching right row (left join)")
	flag.StringVar(&buildSide, "build", buildSide, "Side of the join to build the probe table from, one of 'auto', 'left' or 'right'")
	flag.StringVar(&cache, "cache", cache, "During joining, cache term dictionaries in the given directory as opposed to memory")

	flag.StringVar(&sqlite, "sqlite", sqlite, "Export an sqlite database to the given path")
	flag.StringVar(&mysql, "mysql", mysql, "Export a mysql database. Use a connection string of the form `username:password@host/database`")
	flag.StringVar(&sqlTable, "sql-table", sqlTable, "Name of the table to store results in when exporting to sql")
	flag.BoolVar(&jsonOutput, "json", jsonOutput, "Write one json object per result row instead of tab-separated values")
	flag.StringVar(&output, "output", output, "Write text or json output to the given path instead of standard output")

	flag.BoolVar(&verbose, "verbose", verbose, "Log debug messages, including per-join statistics")
	flag.StringVar(&debugServer, "debug-listen", debugServer, "start a profiling server on the given address")
	flag.StringVar(&debugProfile, "debug-profile", debugProfile, "write out a debugging profile to the given path")

	flag.Parse()
	nArgs = flag.Args()
}
