package theme

import "embed"

// EmbeddedThemes ships the built-in themes.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
