// Package stats logs the stages of a bindjoin run and the joins performed within them.
//
//spellchecker:words stats
package stats

//spellchecker:words slog sync github bindjoin hashjoin progress
import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/FAU-CDI/bindjoin/pkg/progress"
)

// Stats records the stages of a run.
// Messages go to a structured logger, progress of the current stage to a rewritable line.
//
// Stats is safe for concurrent use, but only one stage may run at a time.
// A nil Stats is valid and discards everything.
type Stats struct {
	logger     *slog.Logger
	rewritable *progress.Rewritable

	m        sync.Mutex // protects current and finished
	current  *StageReport
	finished []StageReport
}

// NewStats creates a new Stats that writes to w.
// Debug messages, including one per join, are only written when verbose is true.
func NewStats(w io.Writer, verbose bool) *Stats {
	if w == nil {
		return &Stats{}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return &Stats{
		logger:     slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
		rewritable: &progress.Rewritable{Writer: w, FlushInterval: progress.DefaultFlushInterval},
	}
}

// Logger returns the underlying logger, or nil.
func (st *Stats) Logger() *slog.Logger {
	if st == nil {
		return nil
	}
	return st.logger
}

// Rewritable returns the progress line of st, or nil.
// It is reset whenever a stage ends.
func (st *Stats) Rewritable() *progress.Rewritable {
	if st == nil {
		return nil
	}
	return st.rewritable
}

// Log logs an informational message with key, value pairs.
func (st *Stats) Log(message string, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Info(message, fields...)
}

// LogDebug logs a debug message with key, value pairs.
func (st *Stats) LogDebug(message string, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Debug(message, fields...)
}

// LogError logs err along with message and key, value pairs.
func (st *Stats) LogError(message string, err error, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Error("FAILED "+message, append([]any{"err", err}, fields...)...)
}

// LogFatal is like LogError followed by os.Exit(1).
func (st *Stats) LogFatal(message string, err error) {
	st.LogError(message, err)
	os.Exit(1)
}
