// Package assets embeds the SQL migrations and static files served by the app.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql static
var FS embed.FS

func sub(dir string) fs.FS {
	f, err := fs.Sub(FS, dir)
	if err != nil {
		// Only fails for an invalid path, which is a build-time constant here.
		panic(err)
	}
	return f
}

// Migrations returns the migrations directory as its own root.
func Migrations() fs.FS { return sub("migrations") }

// Static returns the static directory (stylesheet) as its own root.
func Static() fs.FS { return sub("static") }
