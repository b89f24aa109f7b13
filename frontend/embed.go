// Package frontend embeds the built web UI
package frontend

import "embed"

//go:embed dist
var StaticFiles embed.FS
