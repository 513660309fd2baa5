// Package migrations embeds the SQL migration files so they can be applied
// by the goose programmatic API at startup and in tests.
// Each dialect has its own directory because the DDL differs.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Postgres returns the migrations for the postgres backend.
func Postgres() fs.FS {
	return sub("postgres")
}

// SQLite returns the migrations for the sqlite backend.
func SQLite() fs.FS {
	return sub("sqlite")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(FS, dir)
	if err != nil {
		// fs.Sub only fails on an invalid path, and dir is a constant.
		panic(err)
	}
	return f
}
