// Package migrations embeds the SQL schema for the relational user stores.
// Each backend has its own goose-formatted directory.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the migrations for the postgres store.
func Postgres() fs.FS { return sub("postgres") }

// SQLite returns the migrations for the sqlite store.
func SQLite() fs.FS { return sub("sqlite") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// dir is a literal embedded above
		panic(err)
	}
	return f
}
