package arrange

import (
	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/fretboard"
	"github.com/jsphweid/chordmelody/voicing"
	"github.com/pkg/errors"
)

type Options struct {
	Window fretboard.Window `json:"window" yaml:"window"`
	Drop   voicing.Drop     `json:"drop" yaml:"drop"`
	Styles chord.Styles     `json:"styles" yaml:"styles"`
}

func DefaultOptions() Options {
	return Options{
		Window: fretboard.DefaultWindow,
		Drop:   voicing.Drop2,
		Styles: chord.Styles{Major: chord.Seventh, Minor: chord.Seventh},
	}
}

func (o Options) Validate() error {
	return errors.Wrap(o.Window.Validate(), "invalid fret window")
}
