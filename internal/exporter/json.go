package exporter

//spellchecker:words encoding json github bindjoin binding joinkey
import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
)

// JSON writes one json object per row, mapping variable names to terms in N-Triples syntax.
// Unbound variables are omitted.
type JSON struct {
	Writer io.Writer

	encoder *json.Encoder
}

func (js *JSON) Begin(vars *joinkey.Key) error {
	js.encoder = json.NewEncoder(js.Writer)
	js.encoder.SetEscapeHTML(false)
	return nil
}

func (js *JSON) Add(row binding.Binding) error {
	object := make(map[string]string, row.Len())
	for v, term := range row.All() {
		value, err := term.NTriples()
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", v, err)
		}
		object[string(v)] = value
	}
	return js.encoder.Encode(object)
}

func (js *JSON) End() error   { return nil }
func (js *JSON) Close() error { return nil }
