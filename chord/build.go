package chord

import (
	"strings"

	"github.com/pkg/errors"
)

// TriadStyle chooses how a bare triad grows into a four-note chord.
type TriadStyle uint8

const (
	Seventh TriadStyle = iota
	Sixth
	Ninth
	SixNine
)

var styleNames = map[string]TriadStyle{
	"seventh":  Seventh,
	"sixth":    Sixth,
	"ninth":    Ninth,
	"six-nine": SixNine,

	// names used by older configuration files
	"major-seven":    Seventh,
	"major-six":      Sixth,
	"major-nine":     Ninth,
	"major-six-nine": SixNine,
	"minor-seven":    Seventh,
	"minor-six":      Sixth,
	"minor-nine":     Ninth,
	"minor-six-nine": SixNine,
}

func ParseTriadStyle(s string) (TriadStyle, error) {
	style, ok := styleNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Seventh, errors.Errorf("unknown triad style: %s", s)
	}
	return style, nil
}

func (s TriadStyle) String() string {
	switch s {
	case Sixth:
		return "sixth"
	case Ninth:
		return "ninth"
	case SixNine:
		return "six-nine"
	}
	return "seventh"
}

func (s TriadStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TriadStyle) UnmarshalText(b []byte) error {
	parsed, err := ParseTriadStyle(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s TriadStyle) sixth() bool {
	return s == Sixth || s == SixNine
}

func (s TriadStyle) ninth() bool {
	return s == Ninth || s == SixNine
}

// Styles holds the triad style for major and minor chords.
type Styles struct {
	Major TriadStyle `json:"major" yaml:"major"`
	Minor TriadStyle `json:"minor" yaml:"minor"`
}

// Expand grows a written chord into a four-note chord. Triads get a fourth
// tone by quality and style, a lone root becomes a major seventh or sixth
// chord, anything else is returned as written.
func Expand(c Chord, q Quality, styles Styles) Chord {
	c = c.Clone()
	switch len(c) {
	case 3:
		root := c[0]
		switch q {
		case Minor:
			if styles.Minor.sixth() {
				c = c.add(root.Transpose(9))
			} else {
				c = c.add(root.Transpose(10))
			}
			if styles.Minor.ninth() {
				c[0] = c[0].Transpose(2)
			}
		case Major:
			if styles.Major.sixth() {
				c = c.add(root.Transpose(9))
			} else {
				c = c.add(root.Transpose(11))
			}
			if styles.Major.ninth() {
				c[0] = c[0].Transpose(2)
			}
		case Augmented, Suspended:
			c = c.add(root.Transpose(10))
		case Diminished:
			c = c.add(root.Transpose(9))
		}
	case 1:
		root := c[0]
		seventh := root.Transpose(11)
		if styles.Major.sixth() {
			seventh = root.Transpose(9)
		}
		c = c.add(root.Transpose(4))
		c = c.add(root.Transpose(7))
		c = c.add(seventh)
	}
	return c
}
