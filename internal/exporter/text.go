package exporter

//spellchecker:words bufio github bindjoin binding joinkey
import (
	"bufio"
	"fmt"
	"io"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
)

// Text writes rows as tab-separated lines.
// The first line holds the variable names, terms are written in N-Triples syntax.
// Unbound variables are written as empty fields.
type Text struct {
	Writer io.Writer

	vars   *joinkey.Key
	buffer *bufio.Writer
}

func (text *Text) Begin(vars *joinkey.Key) error {
	text.vars = vars
	text.buffer = bufio.NewWriter(text.Writer)

	for i, v := range vars.Vars() {
		if i > 0 {
			text.buffer.WriteByte('\t')
		}
		text.buffer.WriteString(v.String())
	}
	return text.buffer.WriteByte('\n')
}

func (text *Text) Add(row binding.Binding) error {
	for i := 0; i < text.vars.Len(); i++ {
		if i > 0 {
			text.buffer.WriteByte('\t')
		}

		value, ok := row.Get(text.vars.At(i))
		if !ok {
			continue
		}

		term, err := value.NTriples()
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", text.vars.At(i), err)
		}
		text.buffer.WriteString(term)
	}
	return text.buffer.WriteByte('\n')
}

func (text *Text) End() error {
	if text.buffer == nil {
		return nil
	}
	return text.buffer.Flush()
}

// Close does not close the underlying writer.
func (text *Text) Close() error {
	return nil
}
