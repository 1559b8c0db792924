package model

import (
	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/pitch"
)

// Offsets and durations are in quarter notes from the start of the piece.

type Score struct {
	Title    string    `json:"title,omitempty"`
	Composer string    `json:"composer,omitempty"`
	Measures []Measure `json:"measures"`
}

type Measure struct {
	Number    int       `json:"number"`
	Offset    float64   `json:"offset"`
	BarLength float64   `json:"barLength"`
	Meter     Meter     `json:"meter"`
	Notes     []Note    `json:"notes"`
	Harmonies []Harmony `json:"harmonies"`
}

type Meter struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

var CommonTime = Meter{Numerator: 4, Denominator: 4}

// Quarters is the bar length the meter implies.
func (m Meter) Quarters() float64 {
	if m.Denominator == 0 {
		return 0
	}
	return float64(m.Numerator) * 4 / float64(m.Denominator)
}

// Note is a melody note, or a rest when Pitch is nil. Tied marks a note that
// continues the one before it rather than striking again.
type Note struct {
	Offset   float64      `json:"offset"`
	Duration float64      `json:"duration"`
	Pitch    *pitch.Pitch `json:"pitch,omitempty"`
	Tied     bool         `json:"tied,omitempty"`
}

func (n Note) IsRest() bool {
	return n.Pitch == nil
}

func (n Note) End() float64 {
	return n.Offset + n.Duration
}

type Harmony struct {
	Offset float64      `json:"offset"`
	Symbol chord.Symbol `json:"symbol"`
}

// End is where the bar line after the measure falls.
func (m Measure) End() float64 {
	return m.Offset + m.BarLength
}

// Filled is how much of the bar its notes and rests account for.
func (m Measure) Filled() float64 {
	var end float64
	for _, n := range m.Notes {
		if n.End()-m.Offset > end {
			end = n.End() - m.Offset
		}
	}
	return end
}

// Full reports whether the notes reach the bar line. Triplet lengths do not
// add up exactly, hence the tolerance.
func (m Measure) Full() bool {
	return m.Filled() >= m.BarLength-tolerance
}

const tolerance = 1e-6

// Length is the offset of the final bar line.
func (s Score) Length() float64 {
	if len(s.Measures) == 0 {
		return 0
	}
	return s.Measures[len(s.Measures)-1].End()
}

func (s Score) Notes() []Note {
	var res []Note
	for _, m := range s.Measures {
		res = append(res, m.Notes...)
	}
	return res
}

func (s Score) Harmonies() []Harmony {
	var res []Harmony
	for _, m := range s.Measures {
		res = append(res, m.Harmonies...)
	}
	return res
}
