package migrations

import "embed"

// FS holds the versioned schema files applied by migration.Runner.
//
//go:embed *.sql
var FS embed.FS
