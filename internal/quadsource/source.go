// Package quadsource evaluates triple patterns over N-Quads files into binding tables.
//
//spellchecker:words quadsource
package quadsource

//spellchecker:words cayleygraph quad nquads github bindjoin binding imap
import (
	"errors"
	"fmt"
	"io"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/imap"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// cspell:words nquads

// Source represents a source of triples
type Source interface {
	// Open opens this data source.
	//
	// It is valid to call open more than once after Next() returns a token with err = io.EOF.
	// In this case the second call to open should reset the data source.
	Open() error

	// Close closes this source.
	Close() error

	// Next scans the next token
	Next() Token
}

// Token represents a token read from a triple source.
//
// When Err != nil, the remaining fields are not set.
// At the end of the source, Err is io.EOF.
type Token struct {
	Err error

	Subject   binding.Term
	Predicate binding.Term
	Object    binding.Term
}

// QuadSource reads triples from an N-Quads file.
// Graph labels are ignored.
//
// A QuadSource can only be re-opened when Reader implements [io.Seeker].
type QuadSource struct {
	Reader io.Reader
	reader *nquads.Reader
}

var errNotSeekable = errors.New("QuadSource: reader is not seekable")

func (qs *QuadSource) Open() error {
	// if we previously had a reader
	// then we need to reset the state
	if qs.reader != nil {
		if err := qs.reader.Close(); err != nil {
			return err
		}
		seeker, ok := qs.Reader.(io.Seeker)
		if !ok {
			return errNotSeekable
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	qs.reader = nquads.NewReader(qs.Reader, true)
	return nil
}

// Next reads the next token from the QuadSource.
// Quads whose subject or predicate is not an IRI or blank node are skipped.
func (qs *QuadSource) Next() Token {
	for {
		value, err := qs.reader.ReadQuad()
		if err != nil {
			return Token{Err: err}
		}

		if !isNode(value.Subject) || !isNode(value.Predicate) {
			continue
		}

		token, err := makeToken(value)
		if err != nil {
			return Token{Err: fmt.Errorf("invalid quad %s: %w", value, err)}
		}
		return token
	}
}

func (qs *QuadSource) Close() error {
	if qs.reader != nil {
		return qs.reader.Close()
	}
	return nil
}

func isNode(value quad.Value) bool {
	switch value.(type) {
	case quad.IRI, quad.BNode:
		return true
	default:
		return false
	}
}

func makeToken(value quad.Quad) (token Token, err error) {
	if token.Subject, err = binding.FromQuad(value.Subject); err != nil {
		return
	}
	if token.Predicate, err = binding.FromQuad(value.Predicate); err != nil {
		return
	}
	token.Object, err = binding.FromQuad(value.Object)
	return
}

// NewEngine creates a dictionary engine that stores data at the specified path.
// When path is the empty string, stores data in memory.
func NewEngine(path string) imap.Map[binding.Term] {
	if path == "" {
		return &imap.MemoryMap[binding.Term]{}
	}
	return imap.DiskMap[binding.Term]{Path: path}
}
