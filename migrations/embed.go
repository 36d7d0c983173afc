// Package migrations embeds the schema migrations for every supported store.
package migrations

import "embed"

// Postgres holds the SQL migrations under postgres/.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// Mongo holds the command migrations under mongo/.
//
//go:embed mongo/*.json
var Mongo embed.FS
