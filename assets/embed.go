// Package assets bundles the default word list so that the binaries work
// without a data directory.
package assets

import "embed"

//go:embed words.txt
var FS embed.FS
