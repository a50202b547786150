// Package testdata holds charts shared by tests.
package testdata

import _ "embed"

// Chart is a fixture with three lines: a rotating main line, a child line
// and a text line. It has ten notes, nine of them real, and the two notes
// at 6s are simultaneous.
//
//go:embed chart.yaml
var Chart []byte
