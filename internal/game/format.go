package game

import (
	"fmt"
	"strings"
)

type ChartFormat uint8

const (
	FormatRPE ChartFormat = iota
	FormatPEC
	FormatPGR
	FormatPBC
)

var formatNames = map[ChartFormat]string{
	FormatRPE: "rpe",
	FormatPEC: "pec",
	FormatPGR: "pgr",
	FormatPBC: "pbc",
}

func (f ChartFormat) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

func ParseChartFormat(s string) (ChartFormat, error) {
	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown chart format %q", s)
}

// ChartSettings are chart wide switches read by the line and note renderers.
type ChartSettings struct {
	PeAlphaExtension bool
	HoldPartialCover bool
	NoteUniformScale bool
}
