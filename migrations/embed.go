// Package migrations embeds the SQL schema into the binary.
//
// Importing the package registers the files with the database package.
package migrations

import (
	"embed"

	"github.com/texforge/resumed/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
