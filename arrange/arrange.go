package arrange

import (
	"sort"

	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/fretboard"
	"github.com/jsphweid/chordmelody/logger"
	"github.com/jsphweid/chordmelody/model"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/jsphweid/chordmelody/voicing"
	"github.com/pkg/errors"
)

// ErrUnsupportedScoreShape is returned for scores whose bars are not all
// full, such as a pickup measure.
var ErrUnsupportedScoreShape = errors.New("unsupported score shape")

// Entry is one chord of the arrangement. A chord that could not be placed
// on the neck is kept as a Rest of the same duration.
type Entry struct {
	Offset    float64              `json:"offset"`
	Duration  float64              `json:"duration"`
	Symbol    chord.Symbol         `json:"symbol"`
	Melody    *pitch.Pitch         `json:"melody,omitempty"`
	Voicing   voicing.Voicing      `json:"voicing,omitempty"`
	Placement *fretboard.Placement `json:"placement,omitempty"`
	// lowest pitch first
	Labels []string `json:"labels,omitempty"`
	Rest   bool     `json:"rest,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// Fingering is one voice of a placed chord.
type Fingering struct {
	String int
	Fret   int
	Pitch  pitch.Pitch
	Label  string
}

// Fingering lists the voices high to low. Rests have none.
func (e Entry) Fingering() []Fingering {
	if e.Rest || e.Placement == nil {
		return nil
	}
	sorted := e.Voicing.Sorted()
	res := make([]Fingering, 0, len(sorted))
	for i := range e.Placement.Frets {
		j := len(sorted) - 1 - i
		f := Fingering{
			String: e.Placement.Strings[i],
			Fret:   e.Placement.Frets[i],
			Pitch:  sorted[j],
		}
		if j < len(e.Labels) {
			f.Label = e.Labels[j]
		}
		res = append(res, f)
	}
	return res
}

type Bar struct {
	Number int         `json:"number"`
	Offset float64     `json:"offset"`
	Length float64     `json:"length"`
	Meter  model.Meter `json:"meter"`
}

// MelodyNote is a melody note with the neck position it is played at.
type MelodyNote struct {
	model.Note
	Position int `json:"position"`
}

type Arrangement struct {
	Title    string       `json:"title,omitempty"`
	Composer string       `json:"composer,omitempty"`
	Options  Options      `json:"options"`
	Bars     []Bar        `json:"bars"`
	Melody   []MelodyNote `json:"melody"`
	Entries  []Entry      `json:"entries"`
}

// Length is the offset of the final bar line.
func (a *Arrangement) Length() float64 {
	if len(a.Bars) == 0 {
		return 0
	}
	last := a.Bars[len(a.Bars)-1]
	return last.Offset + last.Length
}

// Arrange voices and places every chord of the score in order. Each chord
// only knows about the placement of the chord before it.
func Arrange(s model.Score, opts Options) (*Arrangement, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for _, m := range s.Measures {
		if !m.Full() {
			return nil, errors.Wrapf(ErrUnsupportedScoreShape,
				"measure %d holds %g of %g beats", m.Number, m.Filled(), m.BarLength)
		}
	}

	res := &Arrangement{
		Title:    s.Title,
		Composer: s.Composer,
		Options:  opts,
	}
	for _, m := range s.Measures {
		res.Bars = append(res.Bars, Bar{Number: m.Number, Offset: m.Offset, Length: m.BarLength, Meter: m.Meter})
	}

	notes := s.Notes()
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Offset < notes[j].Offset
	})
	harmonies := changes(s.Harmonies())
	end := s.Length()

	var (
		history  *fretboard.History
		melody   *pitch.Pitch
		position = opts.Window.MinFret
		next     int
	)
	for i, h := range harmonies {
		for next < len(notes) && notes[next].Offset < h.Offset {
			res.Melody = append(res.Melody, MelodyNote{Note: notes[next], Position: position})
			next++
		}

		melody = melodyAt(notes, h.Offset, melody)
		entry, hist, err := Step(h.Symbol, melody, opts, history)
		if err != nil {
			return nil, errors.Wrapf(err, "chord at offset %g", h.Offset)
		}
		history = hist

		entry.Offset = h.Offset
		entry.Duration = end - h.Offset
		if i+1 < len(harmonies) {
			entry.Duration = harmonies[i+1].Offset - h.Offset
		}
		if entry.Placement != nil {
			position = entry.Placement.Position()
		}
		res.Entries = append(res.Entries, entry)
	}
	for ; next < len(notes); next++ {
		res.Melody = append(res.Melody, MelodyNote{Note: notes[next], Position: position})
	}

	logger.Debug("arranged score", logger.Fields{
		"title":  s.Title,
		"chords": len(res.Entries),
		"notes":  len(res.Melody),
		"bars":   len(res.Bars),
	})
	return res, nil
}

// changes orders harmonies by offset. Of two harmonies at the same offset
// the later one wins.
func changes(hs []model.Harmony) []model.Harmony {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].Offset < hs[j].Offset
	})
	res := make([]model.Harmony, 0, len(hs))
	for _, h := range hs {
		if n := len(res); n > 0 && res[n-1].Offset == h.Offset {
			res[n-1] = h
			continue
		}
		res = append(res, h)
	}
	return res
}

// melodyAt finds the note struck with a chord. A chord that changes under a
// held note or a rest keeps the previous chord's melody.
func melodyAt(notes []model.Note, offset float64, prev *pitch.Pitch) *pitch.Pitch {
	for _, n := range notes {
		if n.Offset == offset && !n.IsRest() {
			return n.Pitch
		}
	}
	return prev
}
