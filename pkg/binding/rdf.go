//spellchecker:words binding
package binding

//spellchecker:words errors github anglo korean cayleygraph quad
import (
	"errors"
	"fmt"

	"github.com/anglo-korean/rdf"
	"github.com/cayleygraph/quad"
)

var errUnsupportedValue = errors.New("unsupported quad value")

// FromQuad converts a value read by the quad package into a term.
//
// Values read in raw mode (IRIs, blank nodes and the three kinds of string literals)
// are converted directly; other native values are turned into typed literals using their
// quad string representation.
func FromQuad(value quad.Value) (Term, error) {
	switch v := value.(type) {
	case quad.IRI:
		return IRI(string(v)), nil
	case quad.BNode:
		return Blank(string(v)), nil
	case quad.String:
		return Literal(string(v)), nil
	case quad.LangString:
		return LangLiteral(string(v.Value), v.Lang), nil
	case quad.TypedString:
		return TypedLiteral(string(v.Value), string(v.Type)), nil
	case nil:
		var zero Term
		return zero, fmt.Errorf("%w: <nil>", errUnsupportedValue)
	}

	// anything else can be turned into a typed string
	if ts, ok := value.(quad.TypedStringer); ok {
		typed := ts.TypedString()
		return TypedLiteral(string(typed.Value), string(typed.Type)), nil
	}

	var zero Term
	return zero, fmt.Errorf("%w: %T", errUnsupportedValue, value)
}

// RDF turns this term into an equivalent rdf term.
func (term Term) RDF() (rdf.Term, error) {
	switch term.Kind {
	case KindIRI:
		return rdf.NewIRI(term.Value)
	case KindBlank:
		return rdf.NewBlank(term.Value)
	case KindLiteral:
		switch {
		case term.Language != "":
			return rdf.NewLangLiteral(term.Value, term.Language)
		case term.Datatype != "":
			dt, err := rdf.NewIRI(term.Datatype)
			if err != nil {
				return nil, err
			}
			return rdf.NewTypedLiteral(term.Value, dt), nil
		default:
			return rdf.NewLiteral(term.Value)
		}
	default:
		return nil, fmt.Errorf("term of kind %s can not be converted", term.Kind)
	}
}

// NTriples serializes this term in N-Triples syntax.
func (term Term) NTriples() (string, error) {
	value, err := term.RDF()
	if err != nil {
		return "", err
	}
	return value.Serialize(rdf.NTriples), nil
}
