package midi

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/model"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

type span struct {
	start int64
	end   int64
	key   uint8
}

type textAt struct {
	tick int64
	text string
}

// ReadScore imports a Standard MIDI File as a score. The first track with
// notes is the melody; text and marker events that read as chord
// symbols are the harmony.
func ReadScore(path string) (model.Score, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return model.Score{}, err
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ScoreFromSMF(s, title)
}

// ScoreFromSMF builds a score from a parsed file. Only the first time
// signature is honored. Notes crossing a bar line are split and tied, gaps
// become rests.
func ScoreFromSMF(s *smf.SMF, title string) (model.Score, error) {
	tpq, err := ticksPerQuarter(s)
	if err != nil {
		return model.Score{}, err
	}
	res := model.Score{Title: title}

	var (
		meter     = model.CommonTime
		haveMeter bool
		texts     []textAt
		melody    []span
	)
	for i, track := range s.Tracks {
		var (
			ticks int64
			open  = map[uint8]int64{}
			spans []span
		)
		for _, ev := range track {
			ticks += int64(ev.Delta)
			msg := ev.Message

			var ch, key, vel, num, den uint8
			var text string
			switch {
			case msg.GetMetaMeter(&num, &den):
				if !haveMeter && num > 0 && den > 0 {
					meter = model.Meter{Numerator: int(num), Denominator: int(den)}
					haveMeter = true
				}
			case msg.GetMetaTrackName(&text):
				if i == 0 && strings.TrimSpace(text) != "" {
					res.Title = strings.TrimSpace(text)
				}
			case msg.GetMetaText(&text), msg.GetMetaMarker(&text):
				texts = append(texts, textAt{tick: ticks, text: strings.TrimSpace(text)})
			case msg.GetNoteStart(&ch, &key, &vel):
				if _, ok := open[key]; !ok {
					open[key] = ticks
				}
			case msg.GetNoteEnd(&ch, &key):
				if start, ok := open[key]; ok {
					spans = append(spans, span{start: start, end: ticks, key: key})
					delete(open, key)
				}
			}
		}
		for key, start := range open {
			spans = append(spans, span{start: start, end: ticks, key: key})
		}
		if melody == nil && len(spans) > 0 {
			melody = monophonic(spans)
		}
	}
	if len(melody) == 0 {
		return res, errors.New("midi file has no notes")
	}

	var harmonies []model.Harmony
	for _, t := range texts {
		sym, err := chord.Parse(t.text)
		if err != nil {
			continue
		}
		harmonies = append(harmonies, model.Harmony{Offset: float64(t.tick) / tpq, Symbol: sym})
	}

	barTicks := int64(float64(meter.Numerator) * 4 * tpq / float64(meter.Denominator))
	if barTicks <= 0 {
		return res, errors.Errorf("unusable time signature %d/%d", meter.Numerator, meter.Denominator)
	}

	var last int64
	for _, sp := range melody {
		if sp.end > last {
			last = sp.end
		}
	}
	for _, h := range harmonies {
		if t := int64(h.Offset*tpq) + 1; t > last {
			last = t
		}
	}
	bars := int((last + barTicks - 1) / barTicks)

	pieces := make([][]model.Note, bars)
	for _, sp := range melody {
		tied := false
		for start := sp.start; start < sp.end; {
			bar := start / barTicks
			end := (bar + 1) * barTicks
			if sp.end < end {
				end = sp.end
			}
			p := pitch.Pitch(sp.key)
			pieces[bar] = append(pieces[bar], model.Note{
				Offset:   float64(start) / tpq,
				Duration: float64(end-start) / tpq,
				Pitch:    &p,
				Tied:     tied,
			})
			tied = true
			start = end
		}
	}

	for i := 0; i < bars; i++ {
		m := model.Measure{
			Number:    i + 1,
			Offset:    float64(int64(i)*barTicks) / tpq,
			BarLength: float64(barTicks) / tpq,
			Meter:     meter,
		}
		m.Notes = fillRests(pieces[i], m.Offset, m.End())
		for _, h := range harmonies {
			if h.Offset >= m.Offset && h.Offset < m.End() {
				m.Harmonies = append(m.Harmonies, h)
			}
		}
		res.Measures = append(res.Measures, m)
	}
	return res, nil
}

// monophonic keeps one note sounding at a time; a new note cuts off the one
// before it.
func monophonic(spans []span) []span {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].key > spans[j].key
	})
	var res []span
	for _, sp := range spans {
		if n := len(res); n > 0 {
			prev := &res[n-1]
			if sp.start == prev.start {
				continue
			}
			if prev.end > sp.start {
				prev.end = sp.start
			}
		}
		res = append(res, sp)
	}
	return res
}

func fillRests(notes []model.Note, from, to float64) []model.Note {
	const eps = 1e-9
	var res []model.Note
	cursor := from
	for _, n := range notes {
		if n.Offset > cursor+eps {
			res = append(res, model.Note{Offset: cursor, Duration: n.Offset - cursor})
		}
		res = append(res, n)
		cursor = n.End()
	}
	if to > cursor+eps {
		res = append(res, model.Note{Offset: cursor, Duration: to - cursor})
	}
	return res
}
