package web

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"sync"
)

//go:embed static templates
var assets embed.FS

// Static returns the files served under /static/.
func Static() fs.FS { return sub("static") }

// Templates returns the page templates.
func Templates() fs.FS { return sub("templates") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(assets, dir)
	if err != nil {
		// Only an invalid dir name fails here.
		panic(err)
	}
	return f
}

// StaticVersion is a short digest of the static files. Asset URLs carry it
// so browsers fetch new files after an upgrade.
var StaticVersion = sync.OnceValue(func() string {
	h := sha256.New()
	_ = fs.WalkDir(assets, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := assets.ReadFile(path)
		if err != nil {
			return err
		}
		h.Write([]byte(path))
		h.Write(b)
		return nil
	})
	return hex.EncodeToString(h.Sum(nil))[:12]
})
