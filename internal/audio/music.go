// Package audio plays the chart's music and reports its position.
package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
)

// Music is a seekable, pausable track. Once attached to the speaker every
// access to the stream holds the speaker lock.
type Music struct {
	Format beep.Format

	stream   beep.StreamSeeker
	ctrl     *beep.Ctrl
	closer   io.Closer
	attached bool
}

func NewMusic(stream beep.StreamSeeker, format beep.Format) *Music {
	return &Music{
		Format: format,
		stream: stream,
		ctrl:   &beep.Ctrl{Streamer: stream},
	}
}

// Open decodes an .mp3 or .ogg file.
func Open(file string) (*Music, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format %v", ext)
	}
	if nil != err {
		f.Close()
		return nil, fmt.Errorf("unable to decode %v: %w", file, err)
	}
	m := NewMusic(streamer, format)
	m.closer = streamer
	return m, nil
}

// Streamer is what the speaker plays.
func (m *Music) Streamer() beep.Streamer {
	return m.ctrl
}

// Attach starts playback through the initialised speaker.
func (m *Music) Attach() {
	speaker.Play(m.ctrl)
	m.attached = true
}

func (m *Music) lock() {
	if m.attached {
		speaker.Lock()
	}
}

func (m *Music) unlock() {
	if m.attached {
		speaker.Unlock()
	}
}

// Position is the playback position in seconds.
func (m *Music) Position() float64 {
	m.lock()
	defer m.unlock()
	return m.Format.SampleRate.D(m.stream.Position()).Seconds()
}

func (m *Music) Length() float64 {
	return m.Format.SampleRate.D(m.stream.Len()).Seconds()
}

// Seek clamps t into the track.
func (m *Music) Seek(t float64) error {
	p := m.Format.SampleRate.N(secondsToDuration(t))
	if p < 0 {
		p = 0
	}
	if n := m.stream.Len(); p > n {
		p = n
	}
	m.lock()
	defer m.unlock()
	return m.stream.Seek(p)
}

func (m *Music) Pause() {
	m.lock()
	m.ctrl.Paused = true
	m.unlock()
}

func (m *Music) Play() {
	m.lock()
	m.ctrl.Paused = false
	m.unlock()
}

func (m *Music) Paused() bool {
	m.lock()
	defer m.unlock()
	return m.ctrl.Paused
}

func (m *Music) Close() error {
	if nil == m.closer {
		return nil
	}
	return m.closer.Close()
}
