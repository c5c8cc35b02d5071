// Package migrations embeds the per-driver schema DDL so the formward
// binary migrates its own database without shipping loose .sql files.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
