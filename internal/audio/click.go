package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

const (
	clickLength = 0.03
	clickPitch  = 1000.
)

var DefaultFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Silence is a silent track for charts without music.
func Silence(format beep.Format, length float64) *Music {
	buf := beep.NewBuffer(format)
	buf.Append(beep.Silence(format.SampleRate.N(secondsToDuration(length))))
	return NewMusic(buf.Streamer(0, buf.Len()), format)
}

// Metronome clicks every period starting at first, for latency calibration.
func Metronome(format beep.Format, period, first, length float64) *Music {
	total := format.SampleRate.N(secondsToDuration(length))
	every := format.SampleRate.N(secondsToDuration(period))
	start := format.SampleRate.N(secondsToDuration(first))
	click := format.SampleRate.N(secondsToDuration(clickLength))
	rate := float64(format.SampleRate)

	pos := 0
	buf := beep.NewBuffer(format)
	buf.Append(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			v := 0.
			if every > 0 && pos >= start {
				if k := (pos - start) % every; k < click {
					decay := 1 - float64(k)/float64(click)
					v = 0.6 * decay * math.Sin(2*math.Pi*clickPitch*float64(k)/rate)
				}
			}
			samples[i] = [2]float64{v, v}
			pos++
			n++
		}
		return n, true
	}))
	return NewMusic(buf.Streamer(0, buf.Len()), format)
}
