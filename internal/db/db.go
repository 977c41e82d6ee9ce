// Package db embeds the SQL migrations for the interaction_events store.
package db

import "embed"

//go:embed migrations/*.sql
var MigrationFS embed.FS
