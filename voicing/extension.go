package voicing

import (
	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/pitch"
)

// canCarry reports whether a voice this many semitones above the root may be
// bent into an extension that many semitones above the root.
func canCarry(voice, extension int, q chord.Quality) bool {
	switch {
	case voice == 0 && (extension == 1 || extension == 2):
		return true
	case voice == 7 && (extension == 6 || extension == 8):
		return true
	case voice == 11 && extension == 9:
		return true
	case voice == 7 && extension == 9 && q == chord.Dominant:
		return true
	}
	return false
}

// Extend moves voices onto the written tensions a four-note chord could not
// hold. Each tension takes the first compatible voice other than the melody;
// tensions with no compatible voice are left out.
func Extend(v Voicing, extensions []pitch.Pitch, root pitch.Pitch, q chord.Quality, melody *pitch.Pitch) Voicing {
	res := v.Clone()
	for _, ext := range extensions {
		if pitch.ContainsClass(res, ext.Class()) {
			continue
		}
		extSemis := pitch.Semitones(root, ext)
		for i, p := range res {
			if melody != nil && pitch.SameClass(p, *melody) {
				continue
			}
			voiceSemis := pitch.Semitones(root, p)
			if canCarry(voiceSemis, extSemis, q) {
				res[i] = p.Transpose(float64(extSemis - voiceSemis))
				break
			}
		}
	}
	return res
}
