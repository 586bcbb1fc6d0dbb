// Package sql embeds the document-store schema migrations.
package sql

import "embed"

//go:embed migrations
var Migrations embed.FS
