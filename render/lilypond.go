package render

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/jsphweid/chordmelody/arrange"
	"github.com/jsphweid/chordmelody/model"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/pkg/errors"
)

//go:embed templates/lilypond.ly.tmpl
var lilypondSource string

var lilypond = template.Must(template.New("lilypond").Funcs(sprig.TxtFuncMap()).Parse(lilypondSource))

const eps = 1e-6

var lilyNames = [12]string{"c", "cis", "d", "dis", "e", "f", "fis", "g", "gis", "a", "ais", "b"}

// engravable note values in quarters, longest first
var lilyLengths = []struct {
	quarters float64
	token    string
}{
	{4, "1"}, {3, "2."}, {2, "2"}, {1.5, "4."}, {1, "4"},
	{0.75, "8."}, {0.5, "8"}, {0.375, "16."}, {0.25, "16"}, {0.125, "32"},
}

type fretTable struct {
	Index int
	Chord string
	Frets []arrange.Fingering
}

type document struct {
	Title         string
	Composer      string
	FirstBar      int
	Tables        []fretTable
	ChordNames    []string
	Diagrams      []string
	Melody        []string
	Tablature     bool
	Landscape     bool
	IntervalNames bool
}

type piece struct {
	bar      int
	duration string
}

// LilyPond engraves the arrangement: chord names, one fretboard diagram per
// placed chord and the melody on a tab or treble staff.
func LilyPond(w io.Writer, arr *arrange.Arrangement, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if len(arr.Bars) == 0 {
		return errors.New("nothing to engrave")
	}
	doc := document{
		Title:         arr.Title,
		Composer:      arr.Composer,
		FirstBar:      arr.Bars[0].Number,
		Tablature:     opts.Notation == Tablature,
		Landscape:     opts.Orientation == Landscape,
		IntervalNames: opts.IntervalNames,
	}
	doc.chords(arr)
	doc.melody(arr)

	if err := lilypond.Execute(w, doc); err != nil {
		return errors.Wrap(err, "error writing lilypond file")
	}
	return nil
}

func (d *document) chords(arr *arrange.Arrangement) {
	if len(arr.Entries) == 0 {
		for _, p := range pieces(arr.Bars, arr.Bars[0].Offset, arr.Length()-arr.Bars[0].Offset) {
			d.ChordNames = append(d.ChordNames, "s"+p.duration)
			d.Diagrams = append(d.Diagrams, "s"+p.duration)
		}
		return
	}
	if lead := arr.Entries[0].Offset - arr.Bars[0].Offset; lead > eps {
		for _, p := range pieces(arr.Bars, arr.Bars[0].Offset, lead) {
			d.ChordNames = append(d.ChordNames, "s"+p.duration)
			d.Diagrams = append(d.Diagrams, "s"+p.duration)
		}
	}

	for _, e := range arr.Entries {
		ps := pieces(arr.Bars, e.Offset, e.Duration)
		name := chordHead(e.Symbol.Tones)

		var diagram string
		if !e.Rest && e.Placement != nil {
			t := fretTable{Index: len(d.Tables), Chord: chordHead(e.Voicing.Sorted())}
			for _, f := range e.Fingering() {
				if !d.IntervalNames {
					f.Label = ""
				}
				t.Frets = append(t.Frets, f)
			}
			d.Tables = append(d.Tables, t)
			d.Diagrams = append(d.Diagrams, fmt.Sprintf("\\set predefinedDiagramTable = #fret-table-%d", t.Index))
			diagram = t.Chord
		}

		for i, p := range ps {
			n, f := "s", "s"
			if i == 0 {
				n = name
				if diagram != "" {
					f = diagram
				}
			}
			d.ChordNames = append(d.ChordNames, n+p.duration)
			d.Diagrams = append(d.Diagrams, f+p.duration)
		}
	}
}

func (d *document) melody(arr *arrange.Arrangement) {
	var (
		lastBar  = -1
		meter    model.Meter
		position = -1
	)
	enter := func(bar int) {
		for ; lastBar < bar; lastBar++ {
			if m := arr.Bars[lastBar+1].Meter; m != meter {
				d.Melody = append(d.Melody, fmt.Sprintf("\\time %d/%d", m.Numerator, m.Denominator))
				meter = m
			}
		}
	}

	for i, n := range arr.Melody {
		ps := pieces(arr.Bars, n.Offset, n.Duration)
		if n.IsRest() {
			for _, p := range ps {
				enter(p.bar)
				d.Melody = append(d.Melody, "r"+p.duration)
			}
			continue
		}

		if len(ps) > 0 {
			enter(ps[0].bar)
		}
		if d.Tablature && n.Position != position {
			d.Melody = append(d.Melody, fmt.Sprintf("\\set TabStaff.minimumFret = #%d", n.Position))
			position = n.Position
		}
		tiedOver := false
		if i+1 < len(arr.Melody) {
			next := arr.Melody[i+1]
			tiedOver = next.Tied && !next.IsRest() && *next.Pitch == *n.Pitch
		}
		head := lilyPitch(*n.Pitch)
		for j, p := range ps {
			enter(p.bar)
			tok := head + p.duration
			if j < len(ps)-1 || tiedOver {
				tok += "~"
			}
			d.Melody = append(d.Melody, tok)
		}
	}
}

// pieces cuts a span at the bar lines and spells each part in note values.
func pieces(bars []arrange.Bar, offset, duration float64) []piece {
	var res []piece
	end := offset + duration
	for i, b := range bars {
		from := math.Max(offset, b.Offset)
		to := math.Min(end, b.Offset+b.Length)
		if to-from <= eps {
			continue
		}
		for _, tok := range durations(to - from) {
			res = append(res, piece{bar: i, duration: tok})
		}
	}
	return res
}

func durations(quarters float64) []string {
	var res []string
	left := quarters
	for _, l := range lilyLengths {
		for left >= l.quarters-eps {
			res = append(res, l.token)
			left -= l.quarters
		}
	}
	if left <= eps {
		return res
	}
	return []string{scaled(quarters)}
}

// scaled spells a length no plain note value can, such as a triplet, as a
// scaled quarter note.
func scaled(quarters float64) string {
	for den := 1; den <= 96; den++ {
		num := quarters * float64(den)
		if math.Abs(num-math.Round(num)) < eps {
			if den == 1 {
				return fmt.Sprintf("4*%d", int(math.Round(num)))
			}
			return fmt.Sprintf("4*%d/%d", int(math.Round(num)), den)
		}
	}
	return fmt.Sprintf("4*%d/96", int(math.Round(quarters*96)))
}

func lilyPitch(p pitch.Pitch) string {
	name := lilyNames[p.Class()]
	switch marks := p.Octave() - 3; {
	case marks > 0:
		return name + strings.Repeat("'", marks)
	case marks < 0:
		return name + strings.Repeat(",", -marks)
	}
	return name
}

func chordHead(ps []pitch.Pitch) string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, lilyPitch(p))
	}
	return "<" + strings.Join(names, " ") + ">"
}
