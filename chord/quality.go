package chord

import (
	"strings"

	"github.com/pkg/errors"
)

type Quality uint8

const (
	Major Quality = iota
	Minor
	Dominant
	Augmented
	Diminished
	HalfDiminished
	Suspended
)

var qualityNames = map[Quality]string{
	Major:          "major",
	Minor:          "minor",
	Dominant:       "dominant",
	Augmented:      "augmented",
	Diminished:     "diminished",
	HalfDiminished: "half-diminished",
	Suspended:      "suspended",
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return "unknown"
}

func ParseQuality(s string) (Quality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for q, name := range qualityNames {
		if name == s {
			return q, nil
		}
	}
	return 0, errors.Errorf("unknown chord quality: %s", s)
}

func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quality) UnmarshalText(b []byte) error {
	parsed, err := ParseQuality(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Structural voice indexes of a closed four-note chord.
const (
	rootVoice = iota
	thirdVoice
	fifthVoice
	seventhVoice

	noVoice = -1
)

// reductions maps the melody's semitone distance from the root to the
// structural voice it pushes out of a chord that has grown to five notes.
// Indexed by semitone, 0 (root) through 11 (major seventh).
var reductions = map[Quality][12]int{
	Minor:          {rootVoice, rootVoice, rootVoice, noVoice, thirdVoice, thirdVoice, fifthVoice, fifthVoice, fifthVoice, seventhVoice, seventhVoice, seventhVoice},
	Augmented:      {noVoice, rootVoice, rootVoice, thirdVoice, noVoice, thirdVoice, fifthVoice, fifthVoice, noVoice, fifthVoice, noVoice, seventhVoice},
	HalfDiminished: {noVoice, rootVoice, rootVoice, noVoice, thirdVoice, thirdVoice, noVoice, fifthVoice, fifthVoice, seventhVoice, noVoice, seventhVoice},
	Diminished:     {noVoice, rootVoice, rootVoice, noVoice, thirdVoice, fifthVoice, noVoice, fifthVoice, seventhVoice, noVoice, seventhVoice, rootVoice},
	Dominant:       {noVoice, rootVoice, rootVoice, thirdVoice, noVoice, thirdVoice, fifthVoice, noVoice, fifthVoice, fifthVoice, noVoice, seventhVoice},
	Major:          {rootVoice, rootVoice, rootVoice, thirdVoice, noVoice, thirdVoice, fifthVoice, noVoice, fifthVoice, seventhVoice, seventhVoice, seventhVoice},
	Suspended:      {noVoice, rootVoice, rootVoice, thirdVoice, noVoice, thirdVoice, fifthVoice, noVoice, fifthVoice, fifthVoice, noVoice, seventhVoice},
}

// labels names every semitone above the root, per quality.
var labels = map[Quality][12]string{
	Minor:          {"1", "b9", "9", "b3", "3", "4", "b5", "5", "#5", "6", "b7", "7"},
	Augmented:      {"1", "b9", "9", "#9", "3", "4", "b5", "5", "#5", "13", "b7", "7"},
	HalfDiminished: {"1", "b9", "9", "b3", "3", "4", "b5", "5", "#5", "6", "b7", "7"},
	Diminished:     {"1", "b9", "9", "b3", "3", "4", "b5", "5", "#5", "6", "b7", "7"},
	Dominant:       {"1", "b9", "9", "#9", "3", "4", "b5", "5", "#5", "13", "b7", "7"},
	Major:          {"1", "b9", "9", "b3", "3", "4", "#11", "5", "#5", "6", "b7", "7"},
	Suspended:      {"1", "b9", "9", "b3", "3", "4", "b5", "5", "#5", "13", "b7", "7"},
}

// reductionIndex returns which structural voice a melody this many semitones
// above the root replaces.
func reductionIndex(q Quality, semitones int) (int, bool) {
	table, ok := reductions[q]
	if !ok {
		return noVoice, false
	}
	idx := table[semitones]
	return idx, idx != noVoice
}
