// Package migrations embeds the goose SQL migrations so a fresh database
// can be brought up by the binary itself.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
