package game

import (
	"errors"
	"fmt"
	"sort"
)

var ErrBPM = errors.New("invalid tempo map")

type BPMPoint struct {
	Beat float64
	BPM  float64
}

type bpmSegment struct {
	beat float64
	time float64
	bpm  float64
}

// BpmList converts between elapsed seconds and elapsed beats. Outside the
// table the nearest segment is extrapolated.
type BpmList struct {
	segments []bpmSegment
	cursor   int
}

func NewBpmList(points []BPMPoint) (*BpmList, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no tempo points: %w", ErrBPM)
	}
	segs := make([]bpmSegment, len(points))
	for i, p := range points {
		if !(p.BPM > 0) {
			return nil, fmt.Errorf("point %d has bpm %v: %w", i, p.BPM, ErrBPM)
		}
		if i == 0 {
			segs[i] = bpmSegment{beat: p.Beat, time: p.Beat * 60 / p.BPM, bpm: p.BPM}
			continue
		}
		prev := segs[i-1]
		if !(p.Beat > prev.beat) {
			return nil, fmt.Errorf("point %d at beat %v after %v: %w", i, p.Beat, prev.beat, ErrBPM)
		}
		segs[i] = bpmSegment{
			beat: p.Beat,
			time: prev.time + (p.Beat-prev.beat)*60/prev.bpm,
			bpm:  p.BPM,
		}
	}
	return &BpmList{segments: segs}, nil
}

// seek moves the cursor to the last segment starting at or before v, where
// key picks the beat or time of a segment.
func (b *BpmList) seek(v float64, key func(bpmSegment) float64) bpmSegment {
	n := len(b.segments)
	c := b.cursor
	if key(b.segments[c]) <= v && (c+1 == n || key(b.segments[c+1]) > v) {
		return b.segments[c]
	}
	if c+1 < n && key(b.segments[c+1]) <= v && (c+2 >= n || key(b.segments[c+2]) > v) {
		b.cursor = c + 1
		return b.segments[c+1]
	}
	i := sort.Search(n, func(i int) bool { return key(b.segments[i]) > v }) - 1
	if i < 0 {
		i = 0
	}
	b.cursor = i
	return b.segments[i]
}

func segTime(s bpmSegment) float64 { return s.time }
func segBeat(s bpmSegment) float64 { return s.beat }

// Beat returns the beats elapsed at t seconds.
func (b *BpmList) Beat(t float64) float64 {
	s := b.seek(t, segTime)
	return s.beat + (t-s.time)*s.bpm/60
}

// Time returns the seconds elapsed at the given beat.
func (b *BpmList) Time(beat float64) float64 {
	s := b.seek(beat, segBeat)
	return s.time + (beat-s.beat)*60/s.bpm
}

func (b *BpmList) NowBPM(t float64) float64 {
	return b.seek(t, segTime).bpm
}

// BPMAtOrdinal looks the tempo up by ordinal instead of time. PGR charts
// carry one tempo per judge line and key the table by line index.
func (b *BpmList) BPMAtOrdinal(i int) float64 {
	return b.seek(float64(i), segBeat).bpm
}

func (b *BpmList) Len() int { return len(b.segments) }
