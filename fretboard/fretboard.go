package fretboard

import (
	"math"

	"github.com/jsphweid/chordmelody/pitch"
	"github.com/jsphweid/chordmelody/util"
	"github.com/jsphweid/chordmelody/voicing"
	"github.com/pkg/errors"
)

// Standard tuning, low E (string index 0) to high E (string index 5).
var Standard = [6]pitch.Pitch{40, 45, 50, 55, 59, 64}

const topString = len(Standard) - 1

// HighestOpen is the pitch of the open high E string.
func HighestOpen() pitch.Pitch {
	return Standard[topString]
}

var ErrVoicingUnplayable = errors.New("voicing cannot be played in standard tuning")

// How many strings below the top-voice string each voice sits, high voice
// first, for each drop.
var stringOffsets = map[voicing.Drop][4]int{
	voicing.Drop2:  {0, 1, 2, 3},
	voicing.Drop3:  {0, 1, 2, 4},
	voicing.Drop24: {0, 1, 3, 4},
}

type Window struct {
	MinFret int `json:"minFret" yaml:"min_fret"`
	MaxFret int `json:"maxFret" yaml:"max_fret"`
}

var DefaultWindow = Window{MinFret: 5, MaxFret: 15}

func (w Window) Validate() error {
	if w.MinFret < 0 {
		return errors.Errorf("minimum fret %d is negative", w.MinFret)
	}
	if w.MaxFret < w.MinFret {
		return errors.Errorf("maximum fret %d is below minimum fret %d", w.MaxFret, w.MinFret)
	}
	return nil
}

// History is what the next chord may want to know about the one before it.
type History struct {
	Top    pitch.Pitch `json:"top"`
	String int         `json:"string"`
}

type Placement struct {
	// string index (0 = low E) carrying the top voice
	TopString int `json:"topString"`
	// string number of the melody, 1 = high E
	MelodyString int `json:"melodyString"`
	// high voice to low voice
	Frets   [4]int `json:"frets"`
	Strings [4]int `json:"strings"`

	Top      pitch.Pitch `json:"top"`
	MinFret  int         `json:"minFret"`
	Fallback bool        `json:"fallback"`
}

// Position is the lowest fret the hand covers.
func (p Placement) Position() int {
	return util.MinOf(p.Frets[:])
}

// Exceeds reports whether any fret goes past the window's maximum.
func (p Placement) Exceeds(w Window) bool {
	return util.MaxOf(p.Frets[:]) > w.MaxFret
}

func (p Placement) History() *History {
	return &History{Top: p.Top, String: p.TopString}
}

// Place puts a four-voice voicing on four strings. The search walks the top
// voice from the high E string down until every voice is at or above the
// window's minimum fret. If the previous chord had the same top pitch its
// string is tried first. When nothing fits the window the search is repeated
// with open strings allowed.
func Place(v voicing.Voicing, w Window, d voicing.Drop, prev *History) (Placement, error) {
	if len(v) != 4 {
		return Placement{}, errors.Wrapf(ErrVoicingUnplayable, "%d voices", len(v))
	}
	offsets, ok := stringOffsets[d]
	if !ok {
		return Placement{}, errors.Errorf("no string layout for %s", d)
	}
	sorted := v.Sorted()

	if prev != nil && prev.Top == sorted.Top() && prev.String <= topString {
		if s, ok := search(sorted, offsets, prev.String, w.MinFret); ok {
			return placement(sorted, offsets, s, w.MinFret, false), nil
		}
	}
	if s, ok := search(sorted, offsets, topString, w.MinFret); ok {
		return placement(sorted, offsets, s, w.MinFret, false), nil
	}
	if s, ok := search(sorted, offsets, topString, 0); ok {
		return placement(sorted, offsets, s, 0, true), nil
	}
	return Placement{}, errors.Wrapf(ErrVoicingUnplayable, "%s", v)
}

func search(sorted voicing.Voicing, offsets [4]int, start, minFret int) (int, bool) {
	for s := start; s-offsets[3] >= 0; s-- {
		if fits(sorted, offsets, s, minFret) {
			return s, true
		}
	}
	return 0, false
}

func fits(sorted voicing.Voicing, offsets [4]int, s, minFret int) bool {
	for i, off := range offsets {
		if fret(sorted[3-i], s-off) < minFret {
			return false
		}
	}
	return true
}

func fret(p pitch.Pitch, str int) int {
	return int(math.Round(float64(p - Standard[str])))
}

func placement(sorted voicing.Voicing, offsets [4]int, s, minFret int, fallback bool) Placement {
	p := Placement{
		TopString:    s,
		MelodyString: len(Standard) - s,
		Top:          sorted[3],
		MinFret:      minFret,
		Fallback:     fallback,
	}
	for i, off := range offsets {
		p.Frets[i] = fret(sorted[3-i], s-off)
		p.Strings[i] = p.MelodyString + off
	}
	return p
}
