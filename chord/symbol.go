package chord

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/chordmelody/pitch"
	"github.com/jsphweid/chordmelody/util"
	"github.com/pkg/errors"
)

// RootOctave is the octave the root of a parsed chord symbol sits in.
const RootOctave = 3

// Symbol is a written chord symbol with its tones in root position.
type Symbol struct {
	Figure  string        `json:"figure" yaml:"figure"`
	Root    pitch.Pitch   `json:"root" yaml:"root"`
	Quality Quality       `json:"quality" yaml:"quality"`
	Tones   []pitch.Pitch `json:"tones" yaml:"tones"`

	// Bass is only recorded; slash chords are voiced from the upper structure.
	Bass *pitch.Pitch `json:"bass,omitempty" yaml:"bass,omitempty"`
}

// Split separates the tones that build the four-note chord from the leftover
// tensions handed to the extension applier. An "add" chord written with four
// tones keeps its triad and treats the added tone as an extension.
func (s Symbol) Split() (core []pitch.Pitch, extensions []pitch.Pitch) {
	if strings.Contains(s.Figure, "add") && len(s.Tones) == 4 {
		return clone(s.Tones[:3]), clone(s.Tones[3:])
	}
	n := util.Min(len(s.Tones), 4)
	return clone(s.Tones[:n]), clone(s.Tones[n:])
}

type kind struct {
	token   string
	quality Quality
	degrees []int
}

var kinds = []kind{
	{"", Major, []int{0, 4, 7}},
	{"5", Major, []int{0, 7}},
	{"6", Major, []int{0, 4, 7, 9}},
	{"69", Major, []int{0, 4, 7, 9, 14}},
	{"maj", Major, []int{0, 4, 7}},
	{"maj7", Major, []int{0, 4, 7, 11}},
	{"M7", Major, []int{0, 4, 7, 11}},
	{"Δ", Major, []int{0, 4, 7, 11}},
	{"Δ7", Major, []int{0, 4, 7, 11}},
	{"^7", Major, []int{0, 4, 7, 11}},
	{"maj9", Major, []int{0, 4, 7, 11, 14}},
	{"maj13", Major, []int{0, 4, 7, 11, 14, 21}},

	{"m", Minor, []int{0, 3, 7}},
	{"min", Minor, []int{0, 3, 7}},
	{"-", Minor, []int{0, 3, 7}},
	{"m6", Minor, []int{0, 3, 7, 9}},
	{"m69", Minor, []int{0, 3, 7, 9, 14}},
	{"m7", Minor, []int{0, 3, 7, 10}},
	{"min7", Minor, []int{0, 3, 7, 10}},
	{"-7", Minor, []int{0, 3, 7, 10}},
	{"m9", Minor, []int{0, 3, 7, 10, 14}},
	{"m11", Minor, []int{0, 3, 7, 10, 14, 17}},
	{"m13", Minor, []int{0, 3, 7, 10, 14, 21}},
	{"mMaj7", Minor, []int{0, 3, 7, 11}},
	{"mM7", Minor, []int{0, 3, 7, 11}},

	{"7", Dominant, []int{0, 4, 7, 10}},
	{"9", Dominant, []int{0, 4, 7, 10, 14}},
	{"11", Dominant, []int{0, 4, 7, 10, 14, 17}},
	{"13", Dominant, []int{0, 4, 7, 10, 14, 21}},

	{"aug", Augmented, []int{0, 4, 8}},
	{"+", Augmented, []int{0, 4, 8}},
	{"aug7", Augmented, []int{0, 4, 8, 10}},
	{"+7", Augmented, []int{0, 4, 8, 10}},

	{"dim", Diminished, []int{0, 3, 6}},
	{"o", Diminished, []int{0, 3, 6}},
	{"°", Diminished, []int{0, 3, 6}},
	{"dim7", Diminished, []int{0, 3, 6, 9}},
	{"o7", Diminished, []int{0, 3, 6, 9}},
	{"°7", Diminished, []int{0, 3, 6, 9}},

	{"m7b5", HalfDiminished, []int{0, 3, 6, 10}},
	{"-7b5", HalfDiminished, []int{0, 3, 6, 10}},
	{"ø", HalfDiminished, []int{0, 3, 6, 10}},
	{"ø7", HalfDiminished, []int{0, 3, 6, 10}},

	{"sus", Suspended, []int{0, 5, 7}},
	{"sus4", Suspended, []int{0, 5, 7}},
	{"sus2", Suspended, []int{0, 2, 7}},
	{"7sus", Suspended, []int{0, 5, 7, 10}},
	{"7sus4", Suspended, []int{0, 5, 7, 10}},
	{"9sus4", Suspended, []int{0, 5, 7, 10, 14}},
}

// natural semitone size of each chord degree
var degreeSemitones = map[int]int{2: 2, 3: 4, 4: 5, 5: 7, 6: 9, 7: 10, 9: 14, 11: 17, 13: 21}

var alterationRe = regexp.MustCompile(`^(add|no|b|#)?(\d+)`)

// Parse reads a chord symbol such as "Cmaj7", "F#m7b5", "Bb13", "Gadd9" or
// "C/E" into its root-position tones, root in octave 3.
func Parse(figure string) (Symbol, error) {
	sym := Symbol{Figure: figure}
	text := strings.TrimSpace(figure)
	text = strings.ReplaceAll(text, "♯", "#")
	text = strings.ReplaceAll(text, "♭", "b")
	text = strings.ReplaceAll(text, "6/9", "69")
	if text == "" {
		return sym, errors.New("empty chord symbol")
	}

	if i := strings.LastIndex(text, "/"); i > 0 {
		bass, err := pitch.ClassOf(text[i+1:])
		if err != nil {
			return sym, errors.Wrapf(err, "invalid bass in chord %q", figure)
		}
		b := pitch.FromClass(bass, RootOctave-1)
		sym.Bass = &b
		text = text[:i]
	}

	rootLen := 1
	if len(text) > 1 && (text[1] == '#' || text[1] == 'b') {
		rootLen = 2
	}
	pc, err := pitch.ClassOf(text[:rootLen])
	if err != nil {
		return sym, errors.Wrapf(err, "invalid root in chord %q", figure)
	}
	sym.Root = pitch.FromClass(pc, RootOctave)

	rest := text[rootLen:]
	best := kinds[0]
	for _, k := range kinds {
		if strings.HasPrefix(rest, k.token) && len(k.token) > len(best.token) {
			best = k
		}
	}
	sym.Quality = best.quality
	rest = rest[len(best.token):]

	degrees := make(map[int]bool)
	for _, d := range best.degrees {
		degrees[d] = true
	}
	if err := applyAlterations(degrees, rest); err != nil {
		return sym, errors.Wrapf(err, "chord %q", figure)
	}

	semitones := util.GetKeys(degrees)
	sort.Ints(semitones)
	for _, s := range semitones {
		sym.Tones = append(sym.Tones, sym.Root.Transpose(float64(s)))
	}
	return sym, nil
}

func MustParse(figure string) Symbol {
	s, err := Parse(figure)
	if err != nil {
		panic(err)
	}
	return s
}

func applyAlterations(degrees map[int]bool, rest string) error {
	for {
		rest = strings.TrimLeft(rest, "(), ")
		if rest == "" {
			return nil
		}
		m := alterationRe.FindStringSubmatch(rest)
		if m == nil {
			return errors.Errorf("unrecognized text %q", rest)
		}
		rest = rest[len(m[0]):]

		degree, _ := strconv.Atoi(m[2])
		natural, ok := degreeSemitones[degree]
		if !ok {
			return errors.Errorf("unsupported degree %s", m[0])
		}

		switch m[1] {
		case "b", "#":
			if degree != 5 && degree != 9 && degree != 11 && degree != 13 {
				return errors.Errorf("cannot alter degree %s", m[0])
			}
			delete(degrees, natural)
			if m[1] == "b" {
				degrees[natural-1] = true
			} else {
				degrees[natural+1] = true
			}
		case "add":
			if degree == 3 || degree == 5 || degree == 7 {
				return errors.Errorf("cannot add degree %s", m[0])
			}
			degrees[natural] = true
		case "no":
			if degree != 3 && degree != 5 {
				return errors.Errorf("cannot omit degree %s", m[0])
			}
			for _, s := range []int{natural - 1, natural, natural + 1} {
				delete(degrees, s)
			}
		default:
			if degree != 9 && degree != 11 && degree != 13 {
				return errors.Errorf("unsupported tension %s", m[0])
			}
			degrees[natural] = true
		}
	}
}

func clone(ps []pitch.Pitch) []pitch.Pitch {
	res := make([]pitch.Pitch, len(ps))
	copy(res, ps)
	return res
}
