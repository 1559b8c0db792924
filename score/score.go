package score

import (
	"path/filepath"
	"strings"

	"github.com/jsphweid/chordmelody/midi"
	"github.com/jsphweid/chordmelody/model"
	"github.com/pkg/errors"
)

type Format string

const (
	YAML Format = "yaml"
	MIDI Format = "midi"
)

// FormatOf guesses the score format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".mid", ".midi":
		return MIDI, nil
	}
	return "", errors.Errorf("unsupported score file: %s", path)
}

// Load reads a lead sheet or a Standard MIDI File into a score.
func Load(path string) (model.Score, error) {
	format, err := FormatOf(path)
	if err != nil {
		return model.Score{}, err
	}
	switch format {
	case MIDI:
		return midi.ReadScore(path)
	default:
		return LoadYAML(path)
	}
}
