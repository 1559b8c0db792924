package render

import (
	"strings"

	"github.com/pkg/errors"
)

type Notation string

const (
	Tablature Notation = "tablature"
	Staff     Notation = "staff"
)

type Orientation string

const (
	Portrait  Orientation = "standard"
	Landscape Orientation = "landscape"
)

// Options control how an arrangement is engraved.
type Options struct {
	Notation      Notation    `json:"notation" yaml:"notation"`
	Orientation   Orientation `json:"orientation" yaml:"orientation"`
	IntervalNames bool        `json:"intervalNames" yaml:"interval_names"`
}

func DefaultOptions() Options {
	return Options{Notation: Tablature, Orientation: Portrait, IntervalNames: true}
}

func ParseNotation(s string) (Notation, error) {
	switch n := Notation(strings.ToLower(strings.TrimSpace(s))); n {
	case Tablature, Staff:
		return n, nil
	case "tab":
		return Tablature, nil
	}
	return "", errors.Errorf("unknown notation: %s", s)
}

func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case Portrait, Landscape:
		return o, nil
	case "portrait":
		return Portrait, nil
	}
	return "", errors.Errorf("unknown orientation: %s", s)
}

func (o Options) Validate() error {
	if _, err := ParseNotation(string(o.Notation)); err != nil {
		return err
	}
	_, err := ParseOrientation(string(o.Orientation))
	return err
}
