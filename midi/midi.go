package midi

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Resolution of the files we write, in ticks per quarter note.
const Resolution = 960

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, errors.Errorf("error parsing midi file %s: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing midi file %s", filepath)
	}
	return res, nil
}

// ticksPerQuarter only knows metric time; SMPTE timed files are rejected.
func ticksPerQuarter(s *smf.SMF) (float64, error) {
	tf, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || tf == 0 {
		return 0, errors.Errorf("unsupported midi time format: %v", s.TimeFormat)
	}
	return float64(tf), nil
}
