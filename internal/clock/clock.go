// Package clock keeps chart time in step with the music.
package clock

import (
	"math"
	"time"
)

const (
	DefaultSnapThreshold = 0.05
	DefaultForce         = 1e-3
	// SeekWait is how long audio position reports are ignored after a seek,
	// while the audio backend catches up.
	SeekWait = 0.1
)

// Clock is chart time in seconds: wall time since start, scaled by speed.
type Clock struct {
	// AdjustTime enables small drift corrections towards the audio position.
	AdjustTime    bool
	Force         float64
	SnapThreshold float64

	speed    float64
	start    float64
	paused   bool
	pausedAt float64
	wait     float64
	now      func() time.Time
	epoch    time.Time
}

func New(speed float64, adjustTime bool) *Clock {
	return NewWithNow(speed, adjustTime, time.Now)
}

// NewWithNow uses now as the wall clock.
func NewWithNow(speed float64, adjustTime bool, now func() time.Time) *Clock {
	if speed <= 0 {
		speed = 1
	}
	c := &Clock{
		AdjustTime:    adjustTime,
		Force:         DefaultForce,
		SnapThreshold: DefaultSnapThreshold,
		speed:         speed,
		now:           now,
		epoch:         now(),
		wait:          math.Inf(-1),
	}
	c.start = c.Real()
	return c
}

// Real is wall seconds since the clock was created.
func (c *Clock) Real() float64 {
	return c.now().Sub(c.epoch).Seconds()
}

func (c *Clock) Speed() float64 {
	return c.speed
}

func (c *Clock) Now() float64 {
	if c.paused {
		return (c.pausedAt - c.start) * c.speed
	}
	return (c.Real() - c.start) * c.speed
}

func (c *Clock) Paused() bool {
	return c.paused
}

// Update corrects drift against the audio position in chart seconds.
func (c *Clock) Update(audioPos float64) {
	if c.paused || c.Real() < c.wait {
		return
	}
	drift := audioPos - c.Now()
	if math.Abs(drift) > c.SnapThreshold {
		c.SeekTo(audioPos)
		c.DontWait()
		return
	}
	if c.AdjustTime {
		c.start -= drift * c.Force / c.speed
	}
}

// SeekTo jumps to t and ignores audio reports for SeekWait.
func (c *Clock) SeekTo(t float64) {
	ref := c.Real()
	if c.paused {
		ref = c.pausedAt
	}
	c.start = ref - t/c.speed
	c.wait = c.Real() + SeekWait
}

func (c *Clock) DontWait() {
	c.wait = math.Inf(-1)
}

func (c *Clock) Pause() {
	if c.paused {
		return
	}
	c.pausedAt = c.Real()
	c.paused = true
}

func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	c.start += c.Real() - c.pausedAt
	c.paused = false
}

// Reset restarts at zero, running.
func (c *Clock) Reset() {
	c.start = c.Real()
	c.paused = false
	c.wait = math.Inf(-1)
}
