package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/linesim/internal/game"
)

type Command string

const (
	Play      Command = "play"
	Calibrate Command = "calibrate"
)

const Version = "0.3.0"

var ErrConfig = errors.New("invalid configuration")

type Config struct {
	Command Command

	Chart   string
	Music   string
	Profile string
	Start   time.Duration
	Delay   time.Duration
	Offset  time.Duration
	Rate    float64
	Aspect  float64

	FramePeriod time.Duration
	Keys        string
	// Device is an evdev device path; the terminal keyboard is used when empty.
	Device   string
	Database string

	Autoplay      bool
	AdjustTime    bool
	HideParticles bool
	Save          bool

	Game game.Config
}

// DeviceName keys calibrations in the offset store.
func (c *Config) DeviceName() string {
	if c.Device != "" {
		return c.Device
	}
	return "keyboard"
}

func (c *Config) validate() error {
	switch {
	case c.Rate <= 0:
		return fmt.Errorf("rate %v: %w", c.Rate, ErrConfig)
	case c.Game.NoteScale <= 0:
		return fmt.Errorf("note scale %v: %w", c.Game.NoteScale, ErrConfig)
	case c.Game.ChartRatio <= 0:
		return fmt.Errorf("chart ratio %v: %w", c.Game.ChartRatio, ErrConfig)
	case c.Aspect < 0:
		return fmt.Errorf("aspect ratio %v: %w", c.Aspect, ErrConfig)
	case len([]rune(c.Keys)) == 0:
		return fmt.Errorf("no keys: %w", ErrConfig)
	case c.FramePeriod <= 0:
		return fmt.Errorf("frame period %v: %w", c.FramePeriod, ErrConfig)
	}
	return nil
}

// Parse reads the command line, args excluding the program name.
func Parse(args []string) (*Config, error) {
	c := &Config{Game: game.DefaultConfig()}

	app := kingpin.New("linesim", "Judge line rhythm chart simulator")
	app.Version(Version)
	app.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&c.FramePeriod)
	app.Flag("keys", "Keys mapped to lanes, left to right").Default("dfjk").Short('k').StringVar(&c.Keys)
	app.Flag("device", "evdev keyboard device, instead of the terminal").Short('D').StringVar(&c.Device)
	app.Flag("db", "Calibration database").Default("./offsets.db").StringVar(&c.Database)
	app.Flag("aspect", "Aspect ratio, 0 follows the terminal").Default("0").Float64Var(&c.Aspect)

	play := app.Command("play", "Play a chart").Default()
	play.Arg("chart", "Chart fixture").Required().ExistingFileVar(&c.Chart)
	play.Flag("music", "Music file, .mp3 or .ogg").Short('m').ExistingFileVar(&c.Music)
	play.Flag("profile", "Judgement tier profile").ExistingFileVar(&c.Profile)
	play.Flag("rate", "Playback rate").Default("1.0").Short('r').Float64Var(&c.Rate)
	play.Flag("start", "Start position in the chart").Default("0s").Short('s').DurationVar(&c.Start)
	play.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&c.Delay)
	play.Flag("autoplay", "Judge every note perfect").Short('a').BoolVar(&c.Autoplay)
	play.Flag("adjust-time", "Nudge the clock towards the music").Default("true").BoolVar(&c.AdjustTime)
	play.Flag("hide-particles", "Only show the hit sprite").BoolVar(&c.HideParticles)
	play.Flag("aggressive", "Stop rendering notes early").BoolVar(&c.Game.Aggressive)
	play.Flag("fade", "Fade notes in above, or out below, this height").Default("0").Float64Var(&c.Game.Fade)
	play.Flag("fade-out", "Hide notes once they are late").BoolVar(&c.Game.FadeOut)
	play.Flag("debug-line", "Line debug overlay alpha").Default("0").Float64Var(&c.Game.ChartDebugLine)
	play.Flag("debug-note", "Note debug overlay alpha").Default("0").Float64Var(&c.Game.ChartDebugNote)
	play.Flag("render-line", "Draw judge lines").Default("true").BoolVar(&c.Game.RenderLine)
	play.Flag("render-line-extra", "Draw textured and text lines").Default("true").BoolVar(&c.Game.RenderLineExtra)
	play.Flag("render-note", "Draw notes").Default("true").BoolVar(&c.Game.RenderNote)
	play.Flag("double-hint", "Highlight simultaneous notes").Default("true").BoolVar(&c.Game.RenderDoubleHint)
	play.Flag("note-scale", "Note size").Default("1").Float64Var(&c.Game.NoteScale)
	play.Flag("chart-ratio", "Chart area relative to the screen").Default("1").Float64Var(&c.Game.ChartRatio)

	calibrate := app.Command("calibrate", "Measure input latency against a metronome")
	calibrate.Flag("save", "Store the measured offset").BoolVar(&c.Save)

	cmd, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Command = Command(cmd)
	if c.Command == Calibrate {
		c.Rate = 1
	}
	c.Game.Speed = c.Rate
	if err := c.validate(); nil != err {
		return nil, err
	}
	return c, nil
}
