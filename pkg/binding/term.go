//spellchecker:words binding
package binding

//spellchecker:words strconv
import (
	"strconv"
)

// Kind is the kind of an RDF term.
type Kind uint8

const (
	// KindIRI represents an IRI.
	KindIRI Kind = iota + 1
	// KindBlank represents a blank node.
	KindBlank
	// KindLiteral represents a (possibly typed or language-tagged) literal.
	KindLiteral
)

func (kind Kind) String() string {
	switch kind {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// XSDString and XSDInteger are the datatypes of plain and integer literals.
const (
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
)

// Term represents an RDF value.
//
// Terms are comparable and may be used as map keys.
// Two terms are equal iff all of their fields are equal, no value-based
// normalization (e.g. of "01" and "1" as integers) takes place.
//
// The zero Term is invalid.
type Term struct {
	Kind     Kind
	Value    string
	Datatype string // only set for typed literals
	Language string // only set for language-tagged literals
}

// IRI returns a new IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank returns a new blank node term with the given label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal returns a new plain literal.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral returns a new literal tagged with the given language.
func LangLiteral(value, language string) Term {
	return Term{Kind: KindLiteral, Value: value, Language: language}
}

// TypedLiteral returns a new literal with the given datatype.
// Using [XSDString] as datatype returns a plain literal.
func TypedLiteral(value, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// Integer returns a new xsd:integer literal.
func Integer(value int64) Term {
	return TypedLiteral(strconv.FormatInt(value, 10), XSDInteger)
}

// Valid checks if this term has a known kind.
func (term Term) Valid() bool {
	return term.Kind >= KindIRI && term.Kind <= KindLiteral
}

// String formats this term using N-Triples syntax.
// Terms that can not be serialized are formatted as "<invalid KIND VALUE>".
func (term Term) String() string {
	value, err := term.NTriples()
	if err != nil {
		return "<invalid " + term.Kind.String() + " " + term.Value + ">"
	}
	return value
}
