// Package templates holds the skeletons of the generated artifacts. Each
// NAME.tmpl renders to NAME in the output directory.
package templates

import "embed"

//go:embed *.tmpl
var Templates embed.FS
