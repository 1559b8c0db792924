package arrange

import (
	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/fretboard"
	"github.com/jsphweid/chordmelody/logger"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/jsphweid/chordmelody/voicing"
	"github.com/pkg/errors"
)

// Voice turns a chord symbol and the melody over it into a four-voice drop
// voicing with the melody on top.
func Voice(sym chord.Symbol, melody *pitch.Pitch, opts Options) (voicing.Voicing, error) {
	core, extensions := sym.Split()

	c := chord.Expand(chord.New(core...), sym.Quality, opts.Styles)
	c = chord.AddMelody(c, melody)
	c, err := chord.Reduce(c, sym.Root, sym.Quality, melody)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot voice %s", sym.Figure)
	}

	floor := fretboard.HighestOpen().Transpose(float64(opts.Window.MinFret))
	v := voicing.Shape(c, melody, floor)
	v = opts.Drop.Apply(v)
	return voicing.Extend(v, extensions, sym.Root, sym.Quality, melody), nil
}

// Step voices and places one chord given the history left by the chord
// before it, and returns the history for the next one. A voicing that does
// not fit on the neck becomes a rest and clears the history.
func Step(sym chord.Symbol, melody *pitch.Pitch, opts Options, prev *fretboard.History) (Entry, *fretboard.History, error) {
	entry := Entry{Symbol: sym, Melody: melody}

	v, err := Voice(sym, melody, opts)
	if err != nil {
		return entry, prev, err
	}

	p, err := fretboard.Place(v, opts.Window, opts.Drop, prev)
	if errors.Is(err, fretboard.ErrVoicingUnplayable) {
		logger.Warn("chord replaced by a rest", logger.Fields{
			"symbol":  sym.Figure,
			"voicing": v.String(),
		})
		entry.Rest = true
		entry.Reason = err.Error()
		return entry, nil, nil
	}
	if err != nil {
		return entry, prev, errors.Wrapf(err, "cannot place %s", sym.Figure)
	}

	if p.Exceeds(opts.Window) {
		logger.Warn("voicing reaches past the maximum fret", logger.Fields{
			"symbol":   sym.Figure,
			"frets":    p.Frets,
			"max_fret": opts.Window.MaxFret,
		})
	}
	if p.Fallback {
		logger.Debug("voicing uses open strings", logger.Fields{"symbol": sym.Figure})
	}

	entry.Voicing = v
	entry.Placement = &p
	entry.Labels = chord.Labels(v, sym.Root, sym.Quality)
	return entry, p.History(), nil
}
