package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		expected Pitch
	}{
		{"C4", 60},
		{"E2", 40},
		{"Bb3", 58},
		{"c#5", 73},
		{"E♭4", 63},
		{"B#3", 60},
		{"Cb4", 59},
		{"64", 64},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "H4", "C", "Cx4"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestClassAndOctave(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, Pitch(60).Class())
	assert.Equal(4, Pitch(60).Octave())
	assert.Equal(11, Pitch(59).Class())
	assert.Equal(3, Pitch(59).Octave())
	assert.Equal(10, Pitch(-2).Class())
	assert.Equal("F#2", Pitch(42).Name())
}

func TestSemitones(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(9, Semitones(48, 69))
	assert.Equal(3, Semitones(69, 48))
	assert.Equal(0, Semitones(40, 64))
}

func TestFromClass(t *testing.T) {
	assert.Equal(t, Pitch(48), FromClass(0, 3))
	assert.Equal(t, Pitch(58), FromClass(-2, 3))
}
