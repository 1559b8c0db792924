package score

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/model"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func ReadLeadSheet(r io.Reader) (model.LeadSheet, error) {
	var ls model.LeadSheet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ls); err != nil {
		return ls, errors.Wrap(err, "invalid lead sheet")
	}
	return ls, nil
}

func LoadYAML(path string) (model.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Score{}, err
	}
	defer f.Close()

	ls, err := ReadLeadSheet(f)
	if err != nil {
		return model.Score{}, errors.Wrap(err, path)
	}
	return FromLeadSheet(ls)
}

// FromLeadSheet lays the bars of a lead sheet end to end.
func FromLeadSheet(ls model.LeadSheet) (model.Score, error) {
	s := model.Score{Title: ls.Title, Composer: ls.Composer}

	meter := model.CommonTime
	if ls.Time != "" {
		m, err := ParseMeter(ls.Time)
		if err != nil {
			return s, err
		}
		meter = m
	}

	var (
		offset float64
		tie    *pitch.Pitch
	)
	for i, lm := range ls.Measures {
		number := i + 1
		if lm.Time != "" {
			m, err := ParseMeter(lm.Time)
			if err != nil {
				return s, errors.Wrapf(err, "measure %d", number)
			}
			meter = m
		}

		m := model.Measure{
			Number:    number,
			Offset:    offset,
			BarLength: meter.Quarters(),
			Meter:     meter,
		}

		notes, next, err := ParseMelody(lm.Melody, offset, m.BarLength, tie)
		if err != nil {
			return s, errors.Wrapf(err, "measure %d", number)
		}
		m.Notes = notes
		tie = next

		for _, c := range lm.Chords {
			if c.At < 0 || c.At >= m.BarLength {
				return s, errors.Errorf("measure %d: chord %s at beat %g is outside the bar", number, c.Symbol, c.At)
			}
			sym, err := chord.Parse(c.Symbol)
			if err != nil {
				return s, errors.Wrapf(err, "measure %d", number)
			}
			m.Harmonies = append(m.Harmonies, model.Harmony{Offset: offset + c.At, Symbol: sym})
		}

		s.Measures = append(s.Measures, m)
		offset = m.End()
	}
	if tie != nil {
		return s, errors.Errorf("tie from %s runs past the last measure", tie.Name())
	}
	return s, nil
}

// ParseMeter reads a time signature like "3/4".
func ParseMeter(s string) (model.Meter, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return model.Meter{}, errors.Errorf("invalid time signature: %s", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return model.Meter{}, errors.Errorf("invalid time signature: %s", s)
	}
	d, err := strconv.Atoi(den)
	if err != nil || d <= 0 || d&(d-1) != 0 {
		return model.Meter{}, errors.Errorf("invalid time signature: %s", s)
	}
	return model.Meter{Numerator: n, Denominator: d}, nil
}

// ParseMelody reads one bar of melody tokens such as "E4:1 r:2 G4:1~"
// starting at offset. A token without a length lasts one beat and a
// trailing "~" ties into the next note. tie is the pitch held over from the
// bar before, if any; the pitch left tied at the end of this bar is
// returned. An empty line is a whole-bar rest.
func ParseMelody(line string, offset, barLength float64, tie *pitch.Pitch) ([]model.Note, *pitch.Pitch, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		if tie != nil {
			return nil, nil, errors.Errorf("tie from %s into an empty bar", tie.Name())
		}
		return []model.Note{{Offset: offset, Duration: barLength}}, nil, nil
	}

	var (
		notes []model.Note
		at    = offset
	)
	for _, tok := range tokens {
		n, tied, err := parseToken(tok)
		if err != nil {
			return nil, nil, err
		}
		if tie != nil {
			if n.IsRest() || *n.Pitch != *tie {
				return nil, nil, errors.Errorf("tie from %s cannot end on %s", tie.Name(), tok)
			}
			n.Tied = true
		}
		n.Offset = at
		at += n.Duration
		notes = append(notes, n)

		tie = nil
		if tied {
			if n.IsRest() {
				return nil, nil, errors.Errorf("a rest cannot be tied: %s", tok)
			}
			tie = n.Pitch
		}
	}
	if at-offset > barLength+1e-6 {
		return nil, nil, errors.Errorf("melody lasts %g beats in a bar of %g", at-offset, barLength)
	}
	return notes, tie, nil
}

func parseToken(tok string) (model.Note, bool, error) {
	tied := strings.HasSuffix(tok, "~")
	tok = strings.TrimSuffix(tok, "~")

	name, length, hasLength := strings.Cut(tok, ":")
	n := model.Note{Duration: 1}
	if hasLength {
		beats, err := parseBeats(length)
		if err != nil {
			return n, false, errors.Wrapf(err, "melody token %q", tok)
		}
		n.Duration = beats
	}

	if strings.EqualFold(name, "r") {
		return n, tied, nil
	}
	p, err := pitch.Parse(name)
	if err != nil {
		return n, false, errors.Wrapf(err, "melody token %q", tok)
	}
	n.Pitch = &p
	return n, tied, nil
}

// parseBeats accepts "2", "1.5" or "1/3".
func parseBeats(s string) (float64, error) {
	var (
		v   float64
		err error
	)
	if num, den, ok := strings.Cut(s, "/"); ok {
		var n, d float64
		if n, err = strconv.ParseFloat(num, 64); err == nil {
			if d, err = strconv.ParseFloat(den, 64); err == nil && d != 0 {
				v = n / d
			}
		}
	} else {
		v, err = strconv.ParseFloat(s, 64)
	}
	if err != nil || v <= 0 {
		return 0, errors.Errorf("invalid length: %s", s)
	}
	return v, nil
}
