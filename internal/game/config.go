package game

// Config holds the per tick feature flags.
type Config struct {
	Aggressive bool
	// Fade > 0 fades notes in near that height above the line, < 0 fades
	// them out near the line.
	Fade             float64
	ChartDebugLine   float64
	ChartDebugNote   float64
	RenderLine       bool
	RenderLineExtra  bool
	RenderNote       bool
	RenderDoubleHint bool
	NoteScale        float64
	ChartRatio       float64

	// Speed is the playback rate.
	Speed float64
	// FadeOut hides notes once they enter the bad window.
	FadeOut   bool
	AlphaTint bool
}

func DefaultConfig() Config {
	return Config{
		RenderLine:       true,
		RenderLineExtra:  true,
		RenderNote:       true,
		RenderDoubleHint: true,
		NoteScale:        1,
		ChartRatio:       1,
		Speed:            1,
	}
}
