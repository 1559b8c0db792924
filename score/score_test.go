package score

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/model"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blueBossa = `
title: Blue Bossa
composer: Kenny Dorham
time: 4/4
measures:
  - chords: [{at: 0, symbol: Cm7}]
    melody: "G5:3 C5:1"
  - time: 3/4
    chords: [{at: 0, symbol: Fm7}, {at: 2, symbol: Bb7}]
    melody: "r:1 F5:2~"
  - melody: "F5:1 Eb5:1 D5:1"
`

func ptr(name string) *pitch.Pitch {
	p := pitch.MustParse(name)
	return &p
}

func TestReadLeadSheet(t *testing.T) {
	ls, err := ReadLeadSheet(strings.NewReader(blueBossa))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("Blue Bossa", ls.Title)
	assert.Len(ls.Measures, 3)
	assert.Equal([]model.LeadChord{{At: 0, Symbol: "Fm7"}, {At: 2, Symbol: "Bb7"}}, ls.Measures[1].Chords)
}

func TestReadLeadSheetRejectsUnknownFields(t *testing.T) {
	_, err := ReadLeadSheet(strings.NewReader("title: x\nkey: C\n"))
	assert.Error(t, err)
}

func TestFromLeadSheet(t *testing.T) {
	ls, err := ReadLeadSheet(strings.NewReader(blueBossa))
	require.NoError(t, err)
	s, err := FromLeadSheet(ls)
	require.NoError(t, err)
	require.Len(t, s.Measures, 3)

	assert := assert.New(t)
	first, second, third := s.Measures[0], s.Measures[1], s.Measures[2]

	assert.Equal(4.0, first.BarLength)
	assert.Equal([]model.Note{
		{Offset: 0, Duration: 3, Pitch: ptr("G5")},
		{Offset: 3, Duration: 1, Pitch: ptr("C5")},
	}, first.Notes)
	assert.Equal(chord.Minor, first.Harmonies[0].Symbol.Quality)

	assert.Equal(4.0, second.Offset)
	assert.Equal(3.0, second.BarLength)
	assert.Equal(model.Meter{Numerator: 3, Denominator: 4}, second.Meter)
	assert.Equal(6.0, second.Harmonies[1].Offset)
	assert.True(second.Notes[0].IsRest())

	// the meter carries over and the tie lands on the first F
	assert.Equal(7.0, third.Offset)
	assert.Equal(3.0, third.BarLength)
	assert.True(third.Notes[0].Tied)
	assert.False(third.Notes[1].Tied)
	assert.Equal(10.0, s.Length())
}

func TestEmptyMelodyIsWholeBarRest(t *testing.T) {
	s, err := FromLeadSheet(model.LeadSheet{
		Measures: []model.LeadMeasure{{Chords: []model.LeadChord{{Symbol: "C"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Note{{Offset: 0, Duration: 4}}, s.Measures[0].Notes)
}

func TestParseMelody(t *testing.T) {
	notes, tie, err := ParseMelody("E4 r:1/2 G4:1/2 A4:2~", 8, 4, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(notes, 4)
	assert.Equal(8.0, notes[0].Offset)
	assert.Equal(1.0, notes[0].Duration)
	assert.True(notes[1].IsRest())
	assert.Equal(9.5, notes[2].Offset)
	assert.Equal(10.0, notes[3].Offset)
	assert.Equal(ptr("A4"), tie)
}

func TestParseMelodyErrors(t *testing.T) {
	cases := []struct {
		name string
		line string
		tie  *pitch.Pitch
	}{
		{"too long", "C4:3 D4:2", nil},
		{"bad pitch", "H4:1", nil},
		{"bad length", "C4:x", nil},
		{"zero length", "C4:0", nil},
		{"tied rest", "r:1~ C4:3", nil},
		{"tie to another pitch", "D4:4", ptr("C4")},
		{"tie into a rest", "r:4", ptr("C4")},
		{"tie into an empty bar", "", ptr("C4")},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseMelody(tt.line, 0, 4, tt.tie)
			assert.Error(t, err)
		})
	}
}

func TestFromLeadSheetErrors(t *testing.T) {
	cases := []struct {
		name string
		ls   model.LeadSheet
	}{
		{"bad meter", model.LeadSheet{Time: "4-4"}},
		{"odd denominator", model.LeadSheet{Time: "4/3"}},
		{"chord outside bar", model.LeadSheet{Measures: []model.LeadMeasure{{Chords: []model.LeadChord{{At: 4, Symbol: "C"}}}}}},
		{"bad chord", model.LeadSheet{Measures: []model.LeadMeasure{{Chords: []model.LeadChord{{Symbol: "Hm"}}}}}},
		{"dangling tie", model.LeadSheet{Measures: []model.LeadMeasure{{Melody: "C4:4~"}}}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLeadSheet(tt.ls)
			assert.Error(t, err)
		})
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blue-bossa.yml")
	require.NoError(t, os.WriteFile(path, []byte(blueBossa), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Kenny Dorham", s.Composer)

	_, err = Load(filepath.Join(dir, "song.musicxml"))
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	assert := assert.New(t)
	f, err := FormatOf("a/b/Song.MID")
	assert.NoError(err)
	assert.Equal(MIDI, f)
	f, err = FormatOf("tune.yaml")
	assert.NoError(err)
	assert.Equal(YAML, f)
}
