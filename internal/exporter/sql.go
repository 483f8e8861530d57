package exporter

//spellchecker:words database errors sync github bindjoin binding joinkey huandu sqlbuilder
import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/FAU-CDI/bindjoin/pkg/binding"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
	"github.com/huandu/go-sqlbuilder"
)

// SQL implements an exporter for storing rows inside an sql database.
//
// Rows are stored in a single table with one TEXT column per variable.
// Terms are stored in N-Triples syntax, unbound variables are stored as NULL.
type SQL struct {
	DB          *sql.DB
	Table       string // name of the table to create; defaults to DefaultTable
	BatchSize   int    // number of rows to insert at once
	MaxQueryVar int    // Maximum number of query variables (overrides BatchSize)

	dbLock    sync.Mutex
	batchLock sync.Mutex

	vars    *joinkey.Key
	columns []string
	batch   [][]any
}

const (
	// DefaultTable is the name of the table used when none is given.
	DefaultTable = "bindings"

	columnPrefix = "var__"
)

var (
	nullString               sql.NullString
	errInsufficientQueryVars = errors.New("insufficient query variables")
	errNoBegin               = errors.New("Add called before Begin")
)

func (sql *SQL) table() string {
	if sql.Table == "" {
		return DefaultTable
	}
	return sql.Table
}

// Column returns the name of the column holding the given variable.
func (*SQL) Column(v binding.Var) string {
	return columnPrefix + string(v)
}

// exec executes an sql query
func (sql *SQL) exec(query string, args []any) (err error) {
	sql.dbLock.Lock()
	defer sql.dbLock.Unlock()

	_, err = sql.DB.Exec(query, args...)
	return
}

// execInsert executes an insert into the table for the given values.
// When this would exceed limits on maximum number of query variables, multiple inserts are executed.
func (sql *SQL) execInsert(values [][]any) error {
	// nothing to insert!
	if len(values) == 0 {
		return nil
	}

	// an empty row still needs a column
	columns := sql.columns
	if len(columns) == 0 {
		return errInsufficientQueryVars
	}

	// determine the chunk size based on total number of query variables
	chunkSize := sql.MaxQueryVar / len(columns)
	if chunkSize == 0 {
		return errInsufficientQueryVars
	}

	// maybe the user requested an even smaller batch size!
	if sql.BatchSize > 0 && sql.BatchSize < chunkSize {
		chunkSize = sql.BatchSize
	}

	for i := 0; i < len(values); i += chunkSize {
		insert := sqlbuilder.InsertInto(sql.table())
		insert.Cols(columns...)

		chunkEnd := min(i+chunkSize, len(values))
		for _, v := range values[i:chunkEnd] {
			insert.Values(v...)
		}

		if err := sql.exec(insert.Build()); err != nil {
			return err
		}
	}

	return nil
}

// Begin (re-)creates the table for the given variables.
func (sql *SQL) Begin(vars *joinkey.Key) error {
	sql.batchLock.Lock()
	sql.vars = vars
	sql.batch = nil
	sql.columns = make([]string, 0, vars.Len()+1)
	for _, v := range vars.Vars() {
		sql.columns = append(sql.columns, sql.Column(v))
	}
	if len(sql.columns) == 0 {
		sql.columns = append(sql.columns, rowColumn)
	}
	sql.batchLock.Unlock()

	// drop the table if it already exists
	if err := sql.exec("DROP TABLE IF EXISTS "+sql.table()+";", nil); err != nil {
		return err
	}

	table := sqlbuilder.CreateTable(sql.table()).IfNotExists()
	for _, column := range sql.columns {
		table.Define(column, "TEXT")
	}
	return sql.exec(table.Build())
}

// rowColumn is the only column of a table for a result without variables
const rowColumn = "row"

func (sql *SQL) Add(row binding.Binding) error {
	batch, err := func() ([][]any, error) {
		sql.batchLock.Lock()
		defer sql.batchLock.Unlock()

		if sql.vars == nil {
			return nil, errNoBegin
		}

		values, err := sql.values(row)
		if err != nil {
			return nil, err
		}

		sql.batch = append(sql.batch, values)
		if len(sql.batch) < sql.BatchSize {
			return nil, nil
		}

		batch := sql.batch
		sql.batch = nil
		return batch, nil
	}()
	if err != nil || len(batch) == 0 {
		return err
	}

	return sql.execInsert(batch)
}

// values returns the values to insert for row.
func (sql *SQL) values(row binding.Binding) ([]any, error) {
	if sql.vars.Len() == 0 {
		return []any{row.String()}, nil
	}

	values := make([]any, sql.vars.Len())
	for i := range values {
		v := sql.vars.At(i)
		term, ok := row.Get(v)
		if !ok {
			values[i] = nullString
			continue
		}

		value, err := term.NTriples()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %s: %w", v, err)
		}
		values[i] = value
	}
	return values, nil
}

func (sql *SQL) End() error {
	sql.batchLock.Lock()
	rest := sql.batch
	sql.batch = nil
	sql.batchLock.Unlock()

	return sql.execInsert(rest)
}

func (sql *SQL) Close() error {
	return sql.DB.Close() // close the database
}
