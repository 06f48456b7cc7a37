// Package migrations embeds the Postgres schema.
package migrations

import _ "embed"

// Initial creates the turns table.
//
//go:embed 001_initial.up.sql
var Initial string
