package web

import (
	"embed"
	"io/fs"
)

// assets embeds the dashboard served at the site root.
//
//go:embed static
var assets embed.FS

// FS returns the dashboard files rooted at the static directory.
func FS() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
