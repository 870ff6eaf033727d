// Package migrations embeds the goose-formatted SQL migration set for the
// Name Store's players table.
package migrations

import "embed"

// FS holds the .sql migration files, consumed by goose.SetBaseFS in
// internal/namestore.
//
//go:embed *.sql
var FS embed.FS
