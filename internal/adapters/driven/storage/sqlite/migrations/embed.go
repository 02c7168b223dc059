// Package migrations holds the numbered schema migrations for the case
// store. Each version has an .up.sql and a .down.sql file; Store applies
// the up files in version order and records each one in schema_migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
