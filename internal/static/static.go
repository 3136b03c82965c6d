package static

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static/*
var StaticFS embed.FS

// FS returns the bundled assets rooted at the static directory, so that
// "default-avatar.png" resolves to static/default-avatar.png.
func FS() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// only fails for an invalid path, which is a constant here
		panic(fmt.Sprintf("invalid embedded static path: %v", err))
	}
	return sub
}
