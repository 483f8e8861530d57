//spellchecker:words main
package main

//spellchecker:words database github bindjoin internal exporter stats hashjoin joinkey glebarez sqlite driver mysql
import (
	"database/sql"

	"github.com/FAU-CDI/bindjoin/internal/exporter"
	"github.com/FAU-CDI/bindjoin/internal/stats"
	"github.com/FAU-CDI/bindjoin/pkg/hashjoin"
	"github.com/FAU-CDI/bindjoin/pkg/joinkey"
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/go-sql-driver/mysql"
)

const (
	sqliteMaxQueryVar = 32766 // see https://www.sqlite.org/limits.html
	mysqlMaxQueryVar  = 65535
	sqlBatchSize      = 1000
)

// doSQL exports result into the database at addr.
func doSQL(result hashjoin.Table, vars *joinkey.Key, proto, addr string, st *stats.Stats) {
	db, err := sql.Open(proto, addr)
	if err != nil {
		st.LogFatal("open sql", err)
	}

	ex := &exporter.SQL{
		DB:        db,
		Table:     sqlTable,
		BatchSize: sqlBatchSize,

		MaxQueryVar: mysqlMaxQueryVar,
	}
	if proto == "sqlite" {
		ex.MaxQueryVar = sqliteMaxQueryVar
	}

	// export closes the database
	if err := st.DoStage(stats.StageExport, func() error {
		return export(ex, result, vars, st)
	}); err != nil {
		st.LogFatal("export sql", err)
	}
}
