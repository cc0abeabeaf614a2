package funnelkit

import _ "embed"

// Version is the funnelkit release, read from the VERSION file.
//
//go:embed VERSION
var Version string
