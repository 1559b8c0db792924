package voicing

import (
	"strings"

	"github.com/pkg/errors"
)

// Drop names which voices of a closed voicing move down an octave.
type Drop uint8

const (
	Drop2 Drop = iota
	Drop3
	Drop24
)

var dropNames = map[Drop]string{
	Drop2:  "drop2",
	Drop3:  "drop3",
	Drop24: "drop24",
}

// Voice indexes of the low-to-high closed voicing that are lowered.
var dropVoices = map[Drop][]int{
	Drop2:  {2},
	Drop3:  {1},
	Drop24: {0, 2},
}

func ParseDrop(s string) (Drop, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	for d, name := range dropNames {
		if s == name {
			return d, nil
		}
	}
	return Drop2, errors.Errorf("unknown drop: %s", s)
}

func (d Drop) String() string {
	if name, ok := dropNames[d]; ok {
		return name
	}
	return "unknown"
}

func (d Drop) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Drop) UnmarshalText(b []byte) error {
	parsed, err := ParseDrop(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Apply lowers the drop's voices of a closed voicing by an octave. Voices
// missing from a short voicing are skipped. Slot order is kept.
func (d Drop) Apply(v Voicing) Voicing {
	res := v.Clone()
	for _, i := range dropVoices[d] {
		if i < len(res) {
			res[i] = res[i].Octaves(-1)
		}
	}
	return res
}
