package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"golang.org/x/image/math/f64"

	"git.lost.host/meutraa/linesim/internal/audio"
	"git.lost.host/meutraa/linesim/internal/calibration"
	"git.lost.host/meutraa/linesim/internal/clock"
	"git.lost.host/meutraa/linesim/internal/config"
	"git.lost.host/meutraa/linesim/internal/game"
	"git.lost.host/meutraa/linesim/internal/input"
	"git.lost.host/meutraa/linesim/internal/judge"
	"git.lost.host/meutraa/linesim/internal/parser"
	"git.lost.host/meutraa/linesim/internal/particle"
	"git.lost.host/meutraa/linesim/internal/render"
	"git.lost.host/meutraa/linesim/internal/theme"
)

const (
	// played after the last note before the chart ends
	tailTime = 2.0
	// calibration metronome length
	calibrationLength = 600.0
	sideCol           = 2
)

type Program struct {
	Config   *config.Config
	Parser   parser.Parser
	Theme    theme.Theme
	Renderer render.Renderer

	chart  *game.Chart
	res    *game.Resource
	judge  *judge.DefaultJudge
	fx     *particle.HitEffect
	clock  *clock.Clock
	music  *audio.Music
	keymap *input.Keymap
	store  *calibration.Store

	events  chan input.Event
	done    chan struct{}
	closers []func() error

	offset   float64
	end      float64
	playing  bool
	lastTick float64
	last     *judge.Result
}

func (p *Program) Close() {
	if nil != p.done {
		close(p.done)
		p.done = nil
	}
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); nil != err {
			log.Println("unable to close", err)
		}
	}
	p.closers = nil
}

// openInput starts forwarding key events from the terminal or evdev device.
func (p *Program) openInput() error {
	p.events = make(chan input.Event, 128)
	p.done = make(chan struct{})
	if p.Config.Device != "" {
		return input.ReadEvdev(p.Config.Device, p.events, p.done)
	}
	kb, err := input.OpenKeyboard()
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	p.closers = append(p.closers, kb.Close)
	kb.Forward(p.events, p.done)
	return nil
}

func (p *Program) openStore() {
	store, err := calibration.Open(p.Config.Database)
	if nil != err {
		log.Println("unable to open calibration store", err)
		return
	}
	p.store = store
	p.closers = append(p.closers, store.Close)
}

func (p *Program) initSpeaker(format beep.Format, rate float64) error {
	sr := beep.SampleRate(math.Round(float64(format.SampleRate) * rate))
	if err := speaker.Init(sr, format.SampleRate.N(time.Second/60)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	return nil
}

func (p *Program) aspectRatio() float64 {
	if p.Config.Aspect > 0 {
		return p.Config.Aspect
	}
	return p.Renderer.AspectRatio()
}

func (p *Program) laneCodes() []int {
	var codes []int
	for _, r := range p.Config.Keys {
		codes = append(codes, int(r))
	}
	return codes
}

// chartEnd is the time the last note is over.
func chartEnd(c *game.Chart) float64 {
	end := 0.0
	for _, l := range c.Lines {
		for _, n := range l.Notes {
			end = math.Max(end, n.EndTime())
		}
	}
	return end
}

func (p *Program) initPlay() error {
	var err error
	if p.chart, err = p.Parser.Parse(p.Config.Chart); nil != err {
		return err
	}
	p.end = chartEnd(p.chart) + tailTime

	profile := judge.Profile{}
	if p.Config.Profile != "" {
		data, err := os.ReadFile(p.Config.Profile)
		if nil != err {
			return err
		}
		if profile, err = judge.ParseProfile(data); nil != err {
			return err
		}
	}
	p.judge = judge.NewDefaultJudge(profile)
	p.judge.Autoplay = p.Config.Autoplay

	p.res = game.NewResource(p.Config.Game)
	p.res.AspectRatio = p.aspectRatio()
	p.Theme.Apply(p.res)
	p.fx = particle.NewHitEffect(float32(p.res.NoteWidth))
	p.fx.HideParticles = p.Config.HideParticles
	p.res.Emitter = p.fx

	p.offset = p.Config.Offset.Seconds()
	if p.offset == 0 {
		p.openStore()
		if nil != p.store {
			if offset, ok, err := p.store.Latest(p.Config.DeviceName()); nil != err {
				log.Println(err)
			} else if ok {
				p.offset = offset
			}
		}
	}

	if p.Config.Music != "" {
		if p.music, err = audio.Open(p.Config.Music); nil != err {
			return err
		}
		p.closers = append(p.closers, p.music.Close)
	} else {
		p.music = audio.Silence(audio.DefaultFormat, p.end+p.Config.Start.Seconds())
	}
	if err := p.initSpeaker(p.music.Format, p.Config.Rate); nil != err {
		return err
	}

	start := p.Config.Start.Seconds()
	if err := p.music.Seek(start); nil != err {
		return err
	}
	if start > 0 {
		p.chart.Seek(start)
	}

	p.keymap = input.NewKeymap(p.laneCodes(), -0.5/p.res.AspectRatio)
	if p.Config.Device != "" {
		p.keymap.RepeatTimeout = 0
	}

	p.clock = clock.New(p.Config.Rate, p.Config.AdjustTime)
	p.clock.SeekTo(start - p.Config.Delay.Seconds()*p.Config.Rate)
	p.lastTick = p.clock.Now()
	return nil
}

// Play runs the chart until it ends or the player quits.
func (p *Program) Play() (string, error) {
	if err := p.initPlay(); nil != err {
		return "", err
	}
	if err := p.openInput(); nil != err {
		return "", err
	}
	if err := p.Renderer.Init(); nil != err {
		return "", err
	}

	p.Renderer.RenderLoop(p.Config.FramePeriod, func(now time.Time) bool {
		return p.tick()
	})

	if err := p.Renderer.Deinit(); nil != err {
		return "", err
	}
	return p.summary(), nil
}

// touches drains pending key events; false when the player quit.
func (p *Program) touches(t float64) ([]input.Touch, bool) {
	var touches []input.Touch
	for i := len(p.events); i > 0; i-- {
		ev := <-p.events
		switch {
		case ev.Quit:
			return nil, false
		case nil != ev.Err:
			log.Println("input failed", ev.Err)
			return nil, false
		case ev.Pressed && ev.Code == ' ' && !p.isLane(ev.Code):
			p.togglePause()
			continue
		}
		if touch, ok := p.keymap.Convert(ev, t); ok {
			touches = append(touches, touch)
		}
	}
	return append(touches, p.keymap.Expire(t)...), true
}

func (p *Program) isLane(code int) bool {
	_, ok := p.keymap.Lanes[code]
	return ok
}

func (p *Program) togglePause() {
	if p.clock.Paused() {
		p.clock.Resume()
		p.music.Play()
		return
	}
	p.clock.Pause()
	p.music.Pause()
}

func (p *Program) tick() bool {
	start := p.Config.Start.Seconds()
	if !p.playing && p.clock.Now() >= start {
		p.music.Attach()
		p.playing = true
	}
	if p.playing {
		p.clock.Update(p.music.Position())
	}

	now := p.clock.Now()
	p.res.Time = now - p.chart.Offset - p.offset
	touches, ok := p.touches(p.res.Time)
	if !ok {
		return false
	}

	p.chart.Update(p.res)
	for _, r := range p.judge.Update(p.res, p.chart, touches) {
		p.last = &r
	}
	p.fx.Update(float32((now - p.lastTick) / p.clock.Speed()))
	p.lastTick = now

	p.res.ResetDraws()
	p.chart.Render(p.res)
	p.Renderer.Draw(p.res.Draws)
	p.Renderer.Particles(p.fx)
	p.hud()
	if err := p.Renderer.Flush(); nil != err {
		log.Println("unable to draw", err)
		return false
	}
	return p.res.Time < p.end
}

func (p *Program) hud() {
	s := &p.judge.Stats
	lines := []string{
		fmt.Sprintf("      Time:  %7.2f", p.res.Time),
		fmt.Sprintf("     Combo:  %7d", s.Combo),
		fmt.Sprintf("  Accuracy:  %6.2f%%", s.Accuracy()*100),
		fmt.Sprintf("      Mean:  %+6.1f ms", s.Mean()*1000),
		fmt.Sprintf("     Stdev:  %6.1f ms", s.Stdev()*1000),
	}
	for g := game.Perfect; g <= game.Miss; g++ {
		lines = append(lines, fmt.Sprintf("%10v:  %7d", g, s.Counts[g]))
	}
	if nil != p.last {
		lines = append(lines, fmt.Sprintf("      Last:  %v %+.0f ms", p.last.Grade, p.last.Diff*1000))
	}
	if p.clock.Paused() {
		lines = append(lines, "    paused")
	}
	for i, l := range lines {
		p.Renderer.Text(1+i, sideCol, l)
	}
}

func (p *Program) summary() string {
	s := &p.judge.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "%v notes, max combo %v, accuracy %.2f%%\n", p.chart.NoteCount(), s.MaxCombo, s.Accuracy()*100)
	for g := game.Perfect; g <= game.Miss; g++ {
		fmt.Fprintf(&b, "%10v: %v\n", g, s.Counts[g])
	}
	fmt.Fprintf(&b, "mean %+.1f ms, stdev %.1f ms", s.Mean()*1000, s.Stdev()*1000)
	return b.String()
}

// Calibrate measures the latency of key presses against a metronome.
func (p *Program) Calibrate() (string, error) {
	p.openStore()
	offset := p.Config.Offset.Seconds()
	if nil != p.store && offset == 0 {
		if latest, ok, err := p.store.Latest(p.Config.DeviceName()); nil == err && ok {
			offset = latest
		}
	}
	cal := calibration.NewCalibrator(offset)
	p.music = audio.Metronome(audio.DefaultFormat, cal.Period, cal.ClickAt(), calibrationLength)
	if err := p.initSpeaker(p.music.Format, 1); nil != err {
		return "", err
	}
	p.clock = clock.New(1, true)
	p.clock.Force = 3e-2

	if err := p.openInput(); nil != err {
		return "", err
	}
	if err := p.Renderer.Init(); nil != err {
		return "", err
	}

	th := p.Theme
	res := game.NewResource(game.DefaultConfig())
	res.AspectRatio = p.aspectRatio()
	th.Apply(res)
	fx := particle.NewHitEffect(float32(res.NoteWidth))
	lastLatency, lastTick := math.NaN(), 0.

	p.music.Attach()
	p.Renderer.RenderLoop(p.Config.FramePeriod, func(now time.Time) bool {
		p.clock.Update(p.music.Position())
		t := p.clock.Now()
		for i := len(p.events); i > 0; i-- {
			ev := <-p.events
			if ev.Quit || nil != ev.Err {
				return false
			}
			if !ev.Pressed {
				continue
			}
			latency, kept := cal.Hit(t)
			lastLatency = latency
			color := th.GradeColor(game.Good)
			if kept {
				color = th.GradeColor(game.Perfect)
			}
			fx.EmitAt(f64.Vec2{latency * 2, 0}, 0, color)
		}
		fx.Update(float32(t - lastTick))
		lastTick = t

		// the click lands on the centre marker
		p.Renderer.Draw([]game.Draw{{
			Kind:  game.DrawText,
			Color: th.TextColor(),
			Text:  "|",
		}})
		p.Renderer.Particles(fx)
		p.Renderer.Text(1, sideCol, "Press any key on the click, escape to finish")
		if !math.IsNaN(lastLatency) {
			p.Renderer.Text(3, sideCol, fmt.Sprintf("  Now:  %+5.0f ms", lastLatency*1000))
		}
		p.Renderer.Text(4, sideCol, fmt.Sprintf("  Avg:  %+5.0f ms (%d/%d)", cal.Average()*1000, len(cal.Samples()), calibration.Keep))
		p.Renderer.Text(5, sideCol, fmt.Sprintf("  Offset:  %+5.0f ms", (cal.Offset+cal.Average())*1000))
		if err := p.Renderer.Flush(); nil != err {
			log.Println("unable to draw", err)
			return false
		}
		return t < calibrationLength
	})

	if err := p.Renderer.Deinit(); nil != err {
		return "", err
	}
	result := cal.Offset + cal.Average()
	summary := fmt.Sprintf("offset %+.0f ms from %d samples", result*1000, len(cal.Samples()))
	if p.Config.Save && len(cal.Samples()) > 0 {
		if nil == p.store {
			return "", fmt.Errorf("unable to save offset, no calibration store")
		}
		if err := p.store.Save(p.Config.DeviceName(), result, cal.Samples()); nil != err {
			return "", err
		}
		summary += ", saved for " + p.Config.DeviceName()
	}
	return summary, nil
}
