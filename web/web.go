// Package web holds the browser client bundle served by the relay.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

func Assets() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
