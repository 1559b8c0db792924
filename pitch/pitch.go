package pitch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/chordmelody/util"
	"github.com/pkg/errors"
)

// Pitch is an absolute semitone position on the MIDI scale (C4 = 60).
type Pitch float64

const Octave = 12

var noteMap = map[string]int{
	"C":  0,
	"C#": 1, "Db": 1,
	"D":  2,
	"D#": 3, "Eb": 3,
	"E":  4, "Fb": 4,
	"E#": 5, "F": 5,
	"F#": 6, "Gb": 6,
	"G":  7,
	"G#": 8, "Ab": 8,
	"A":  9,
	"A#": 10, "Bb": 10,
	"B":  11, "Cb": 11,
	"B#": 0,
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Class is the pitch class, 0-11 with C = 0.
func (p Pitch) Class() int {
	return util.Mod(int(math.Round(float64(p))), Octave)
}

// Octave in scientific notation, so C4 is 60 and B3 is 59.
func (p Pitch) Octave() int {
	return int(math.Floor(math.Round(float64(p))/Octave)) - 1
}

func (p Pitch) Transpose(semitones float64) Pitch {
	return p + Pitch(semitones)
}

// Octaves shifts by whole octaves.
func (p Pitch) Octaves(n int) Pitch {
	return p + Pitch(n*Octave)
}

func (p Pitch) Name() string {
	return fmt.Sprintf("%s%d", sharpNames[p.Class()], p.Octave())
}

func (p Pitch) String() string {
	return p.Name()
}

// Semitones is the ascending distance from one pitch class to another, 0-11.
func Semitones(from, to Pitch) int {
	return util.Mod(to.Class()-from.Class(), Octave)
}

// SameClass reports whether two pitches share a pitch class.
func SameClass(a, b Pitch) bool {
	return a.Class() == b.Class()
}

// ClassOf returns the pitch class for a spelled note name like "Bb" or "F#".
func ClassOf(name string) (int, error) {
	pc, ok := noteMap[normalize(name)]
	if !ok {
		return 0, errors.Errorf("invalid note name: %s", name)
	}
	return pc, nil
}

// FromClass builds the pitch with the given class in the given octave.
func FromClass(pc int, octave int) Pitch {
	return Pitch((octave+1)*Octave + util.Mod(pc, Octave))
}

// Parse reads scientific pitch notation such as "E4", "Bb3" or "C#5". A bare
// MIDI number is accepted too.
func Parse(s string) (Pitch, error) {
	s = normalize(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.New("empty pitch")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Pitch(n), nil
	}

	i := 1
	if len(s) > 1 && (s[1] == '#' || s[1] == 'b') {
		i = 2
	}
	pc, err := ClassOf(s[:i])
	if err != nil {
		return 0, err
	}
	if i == len(s) {
		return 0, errors.Errorf("pitch %q is missing an octave", s)
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid octave in pitch %q", s)
	}

	// B#4 sounds as C5 and Cb4 as B3
	p := FromClass(pc, octave)
	switch s[:i] {
	case "B#":
		p = p.Octaves(1)
	case "Cb":
		p = p.Octaves(-1)
	}
	return p, nil
}

func MustParse(s string) Pitch {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "♯", "#")
	s = strings.ReplaceAll(s, "♭", "b")
	if s != "" {
		s = strings.ToUpper(s[:1]) + s[1:]
	}
	return s
}

// Classes returns the pitch classes of the given pitches, in order.
func Classes(ps []Pitch) []int {
	res := make([]int, 0, len(ps))
	for _, p := range ps {
		res = append(res, p.Class())
	}
	return res
}

// ContainsClass reports whether any pitch shares pc.
func ContainsClass(ps []Pitch, pc int) bool {
	for _, p := range ps {
		if p.Class() == pc {
			return true
		}
	}
	return false
}
