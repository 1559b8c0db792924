package midi

import (
	"io"
	"math"
	"sort"
	"time"

	"github.com/jsphweid/chordmelody/arrange"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	MelodyChannel  = 0
	VoicingChannel = 1
	velocity       = 100
)

type event struct {
	tick int64
	off  bool
	msg  []byte
}

// Cue is a channel message due at a point in time after the start of
// playback.
type Cue struct {
	At  time.Duration
	Msg midi.Message
}

func ticks(quarters float64) int64 {
	return int64(math.Round(quarters * Resolution))
}

func sortEvents(evts []event) {
	// note offs go first so repeated pitches retrigger
	sort.SliceStable(evts, func(i, j int) bool {
		if evts[i].tick != evts[j].tick {
			return evts[i].tick < evts[j].tick
		}
		return evts[i].off && !evts[j].off
	})
}

func toTrack(evts []event) smf.Track {
	sortEvents(evts)
	var track smf.Track
	var last int64
	for _, e := range evts {
		track.Add(uint32(e.tick-last), e.msg)
		last = e.tick
	}
	track.Close(0)
	return track
}

func conductorEvents(arr *arrange.Arrangement, bpm float64) []event {
	evts := []event{{msg: smf.MetaTempo(bpm)}}
	if arr.Title != "" {
		evts = append(evts, event{msg: smf.MetaTrackSequenceName(arr.Title)})
	}
	var prev [2]int
	for _, b := range arr.Bars {
		m := [2]int{b.Meter.Numerator, b.Meter.Denominator}
		if m == prev {
			continue
		}
		prev = m
		evts = append(evts, event{
			tick: ticks(b.Offset),
			msg:  smf.MetaMeter(uint8(m[0]), uint8(m[1])),
		})
	}
	return evts
}

// melodyEvents merges tied notes into one sounding note.
func melodyEvents(arr *arrange.Arrangement) []event {
	var evts []event
	for i := 0; i < len(arr.Melody); i++ {
		n := arr.Melody[i]
		if n.IsRest() {
			continue
		}
		end := n.End()
		for i+1 < len(arr.Melody) {
			next := arr.Melody[i+1]
			if !next.Tied || next.IsRest() || *next.Pitch != *n.Pitch {
				break
			}
			end = next.End()
			i++
		}
		key := uint8(*n.Pitch)
		evts = append(evts,
			event{tick: ticks(n.Offset), msg: midi.NoteOn(MelodyChannel, key, velocity)},
			event{tick: ticks(end), off: true, msg: midi.NoteOff(MelodyChannel, key)},
		)
	}
	return evts
}

// voicingEvents sounds every placed chord. Each entry, rest or not, is
// marked with its chord figure so that the file reads back as a score.
func voicingEvents(arr *arrange.Arrangement, withText bool) []event {
	var evts []event
	for _, e := range arr.Entries {
		start, end := ticks(e.Offset), ticks(e.Offset+e.Duration)
		if withText {
			evts = append(evts, event{tick: start, msg: smf.MetaText(e.Symbol.Figure)})
		}
		if e.Rest {
			continue
		}
		for _, p := range e.Voicing {
			key := uint8(p)
			evts = append(evts,
				event{tick: start, msg: midi.NoteOn(VoicingChannel, key, velocity)},
				event{tick: end, off: true, msg: midi.NoteOff(VoicingChannel, key)},
			)
		}
	}
	return evts
}

// WriteArrangement writes the arrangement as a type 1 Standard MIDI File
// with a conductor track, the melody and the chord voicings.
func WriteArrangement(w io.Writer, arr *arrange.Arrangement, bpm float64) error {
	if bpm <= 0 {
		return errors.Errorf("invalid tempo: %g", bpm)
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)

	for _, evts := range [][]event{
		conductorEvents(arr, bpm),
		melodyEvents(arr),
		voicingEvents(arr, true),
	} {
		if err := s.Add(toTrack(evts)); err != nil {
			return errors.Wrap(err, "error adding track")
		}
	}
	if _, err := s.WriteTo(w); err != nil {
		return errors.Wrap(err, "error writing midi file")
	}
	return nil
}

// Cues lays out the melody and voicing notes in real time for playback on a
// live port.
func Cues(arr *arrange.Arrangement, bpm float64) []Cue {
	evts := append(melodyEvents(arr), voicingEvents(arr, false)...)
	sortEvents(evts)

	perTick := float64(time.Minute) / bpm / Resolution
	res := make([]Cue, 0, len(evts))
	for _, e := range evts {
		res = append(res, Cue{
			At:  time.Duration(float64(e.tick) * perTick),
			Msg: midi.Message(e.msg),
		})
	}
	return res
}
