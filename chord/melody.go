package chord

import (
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/pkg/errors"
)

// ErrUnmappedMelody means the reduction table of a quality has no entry for
// the melody's degree, i.e. the symbol and its declared quality disagree.
var ErrUnmappedMelody = errors.New("melody degree has no reduction for chord quality")

// AddMelody puts the melody's pitch class into the chord when it is missing,
// within the octave above the chord's lowest note. The melody's own octave is
// resolved later by the shaper.
func AddMelody(c Chord, melody *pitch.Pitch) Chord {
	c = c.Clone()
	if melody == nil || len(c) == 0 || c.HasClass(melody.Class()) {
		return c
	}
	low := c[0]
	return c.add(low.Transpose(float64(pitch.Semitones(low, *melody))))
}

// Reduce brings a chord that grew past four notes back to four by dropping
// the structural voice the melody stands in for. The melody voice is never
// removed.
func Reduce(c Chord, root pitch.Pitch, q Quality, melody *pitch.Pitch) (Chord, error) {
	c = c.Clone()
	if len(c) <= 4 || melody == nil {
		return c, nil
	}

	i := c.IndexOfClass(melody.Class())
	if i < 0 {
		return c, errors.Errorf("melody %s is not part of chord %s", melody.Name(), c)
	}
	mel := c[i]
	c = c.removeAt(i)

	semitones := pitch.Semitones(root, mel)
	idx, ok := reductionIndex(q, semitones)
	if !ok {
		return c.add(mel), errors.Wrapf(ErrUnmappedMelody, "%s chord, melody %d semitones above root", q, semitones)
	}
	if idx >= len(c) {
		return c.add(mel), errors.Errorf("chord %s has no structural voice %d", c, idx)
	}
	c = c.removeAt(idx)

	// a melody on the 13th of a dominant also turns the root into a 9th
	if q == Dominant && semitones == 9 {
		c[0] = c[0].Transpose(2)
	}
	return c.add(mel), nil
}
