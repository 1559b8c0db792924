package voicing

import (
	"math"

	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/pitch"
)

// Shape moves a closed chord into playing position. With a melody the chord
// is aligned so the voice carrying the melody's pitch class sits exactly on
// the melody, and every voice above it is folded down by octaves. Without a
// melody the chord is moved by whole octaves until its top reaches floor.
// The result is sorted low to high.
func Shape(c chord.Chord, melody *pitch.Pitch, floor pitch.Pitch) Voicing {
	v := Voicing(c.Clone())
	if len(v) == 0 {
		return v
	}
	if melody == nil {
		return raise(v, floor).Sorted()
	}

	mel := *melody
	if i := c.IndexOfClass(mel.Class()); i >= 0 {
		shift := float64(mel - v[i])
		for j := range v {
			v[j] = v[j].Transpose(shift)
		}
	}
	for j := range v {
		for v[j] > mel {
			v[j] = v[j].Octaves(-1)
		}
	}
	return v.Sorted()
}

// raise can also lower a chord that sits far above floor.
func raise(v Voicing, floor pitch.Pitch) Voicing {
	octaves := 1 + int(math.Floor(float64(floor-v.Top())/pitch.Octave))
	for j := range v {
		v[j] = v[j].Octaves(octaves)
	}
	return v
}
