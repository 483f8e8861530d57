// Package exporter writes join results to different sinks.
package exporter

//spellchecker:words github bindjoin binding joinkey
import (
	"io"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
)

// Exporter receives the rows of a result.
type Exporter interface {
	io.Closer

	// Begin signals that rows with the given variables will be transmitted
	Begin(vars *joinkey.Key) error

	// Add adds a single row
	Add(row binding.Binding) error

	// End signals that no more rows will be transmitted
	End() error
}
