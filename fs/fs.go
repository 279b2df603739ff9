// Package appfs embeds the static files shipped with the binaries.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS

// MigrationsDir returns the directory of FS holding the migrations of the given database engine.
func MigrationsDir(engine string) string {
	return "migrations/" + engine
}
