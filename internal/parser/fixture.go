package parser

// Fixture charts are YAML:
//
//	format: rpe
//	bpm: [{beat: 0, bpm: 120}]
//	lines:
//	  - speed: 2
//	    rotation: [{time: 0, value: 0}, {time: 4, value: 90, ease: sine-in-out}]
//	    notes:
//	      - {kind: click, time: 1, x: -0.2}
//	      - {kind: hold, time: 2, end: 3}

type keyframe struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
	Ease  string  `yaml:"ease"`
}

// colorKeyframe values are #rrggbb colours.
type colorKeyframe struct {
	Time  float64  `yaml:"time"`
	Value string   `yaml:"value"`
	Alpha *float64 `yaml:"alpha"`
	Ease  string   `yaml:"ease"`
}

type textKeyframe struct {
	Time  float64 `yaml:"time"`
	Value string  `yaml:"value"`
}

type texture struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ctrl struct {
	Alpha []keyframe `yaml:"alpha"`
	Size  []keyframe `yaml:"size"`
	Pos   []keyframe `yaml:"pos"`
	Y     []keyframe `yaml:"y"`
}

// note End is the release time of holds.
type note struct {
	Kind     string   `yaml:"kind"`
	Time     float64  `yaml:"time"`
	End      float64  `yaml:"end"`
	EndSpeed *float64 `yaml:"end_speed"`
	X        float64  `yaml:"x"`
	Y        float64  `yaml:"y"`
	Speed    *float64 `yaml:"speed"`
	Below    bool     `yaml:"below"`
	Fake     bool     `yaml:"fake"`

	Alpha []keyframe `yaml:"alpha"`
}

type line struct {
	// Speed scrolls the line at a constant rate unless Height is given.
	Speed  *float64   `yaml:"speed"`
	Height []keyframe `yaml:"height"`

	Parent           *int           `yaml:"parent"`
	RotateWithParent bool           `yaml:"rotate_with_parent"`
	ZIndex           int            `yaml:"z_index"`
	ShowBelow        bool           `yaml:"show_below"`
	Anchor           []float64      `yaml:"anchor"`
	Texture          *texture       `yaml:"texture"`
	Text             []textKeyframe `yaml:"text"`

	Alpha    []keyframe      `yaml:"alpha"`
	X        []keyframe      `yaml:"x"`
	Y        []keyframe      `yaml:"y"`
	Rotation []keyframe      `yaml:"rotation"`
	ScaleX   []keyframe      `yaml:"scale_x"`
	ScaleY   []keyframe      `yaml:"scale_y"`
	Color    []colorKeyframe `yaml:"color"`
	Incline  []keyframe      `yaml:"incline"`
	Ctrl     ctrl            `yaml:"ctrl"`

	Notes []note `yaml:"notes"`
}

type bpmPoint struct {
	Beat float64 `yaml:"beat"`
	BPM  float64 `yaml:"bpm"`
}

type settings struct {
	PeAlphaExtension bool `yaml:"pe_alpha_extension"`
	HoldPartialCover bool `yaml:"hold_partial_cover"`
	NoteUniformScale bool `yaml:"note_uniform_scale"`
}

type fixture struct {
	Format   string     `yaml:"format"`
	Offset   float64    `yaml:"offset"`
	Settings settings   `yaml:"settings"`
	BPM      []bpmPoint `yaml:"bpm"`
	Lines    []line     `yaml:"lines"`
}
