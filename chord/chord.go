package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/chordmelody/pitch"
)

// Chord is an ordered set of pitches. Adding a note keeps the chord sorted
// ascending; transposing a single voice leaves it in its slot, so the slot
// order is the construction order the reduction tables index into.
type Chord []pitch.Pitch

func New(ps ...pitch.Pitch) Chord {
	return Chord(clone(ps))
}

func (c Chord) Clone() Chord {
	return Chord(clone(c))
}

// add returns a copy with p inserted, sorted ascending.
func (c Chord) add(p pitch.Pitch) Chord {
	res := append(c.Clone(), p)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i] < res[j]
	})
	return res
}

func (c Chord) removeAt(i int) Chord {
	res := make(Chord, 0, len(c)-1)
	res = append(res, c[:i]...)
	return append(res, c[i+1:]...)
}

// IndexOfClass returns the first voice with the given pitch class, or -1.
func (c Chord) IndexOfClass(pc int) int {
	for i, p := range c {
		if p.Class() == pc {
			return i
		}
	}
	return -1
}

func (c Chord) HasClass(pc int) bool {
	return c.IndexOfClass(pc) >= 0
}

func (c Chord) PitchClasses() []int {
	return pitch.Classes(c)
}

func (c Chord) String() string {
	names := make([]string, 0, len(c))
	for _, p := range c {
		names = append(names, p.Name())
	}
	return fmt.Sprintf("<%s>", strings.Join(names, " "))
}
