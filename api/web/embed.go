package web

import "embed"

//go:embed templates static
var assets embed.FS

// StaticFS exposes the embedded static tree for the file server.
func StaticFS() embed.FS {
	return assets
}
