package voicing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/chordmelody/pitch"
)

// Voicing is a chord in absolute octave space. After a drop it is no longer
// sorted; use Sorted for low-to-high order.
type Voicing []pitch.Pitch

func (v Voicing) Clone() Voicing {
	res := make(Voicing, len(v))
	copy(res, v)
	return res
}

// Top is the highest sounding pitch.
func (v Voicing) Top() pitch.Pitch {
	var top pitch.Pitch
	for i, p := range v {
		if i == 0 || p > top {
			top = p
		}
	}
	return top
}

func (v Voicing) Sorted() Voicing {
	res := v.Clone()
	sort.Slice(res, func(i, j int) bool {
		return res[i] < res[j]
	})
	return res
}

func (v Voicing) Classes() []int {
	return pitch.Classes(v)
}

func (v Voicing) String() string {
	names := make([]string, 0, len(v))
	for _, p := range v {
		names = append(names, p.Name())
	}
	return fmt.Sprintf("[%s]", strings.Join(names, " "))
}
