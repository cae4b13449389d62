// Package db holds the SQL schema migrations applied by cadastroctl.
package db

import "embed"

// Migrations is embedded into binaries built with the embed_migrations tag.
//
//go:embed migrations/*.sql
var Migrations embed.FS
