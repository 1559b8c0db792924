package fretboard

import (
	"testing"

	"github.com/jsphweid/chordmelody/voicing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var window = Window{MinFret: 5, MaxFret: 15}

func TestPlaceOnTopStrings(t *testing.T) {
	// Cmaj7 drop2 under E5
	p, err := Place(voicing.Voicing{67, 71, 60, 76}, window, voicing.Drop2, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(5, p.TopString)
	assert.Equal(1, p.MelodyString)
	assert.Equal([4]int{12, 12, 12, 10}, p.Frets)
	assert.Equal([4]int{1, 2, 3, 4}, p.Strings)
	assert.Equal(10, p.Position())
	assert.False(p.Fallback)
	assert.Equal(5, p.MinFret)
}

func TestPlaceWalksDownStrings(t *testing.T) {
	// the top voice G4 would sit on fret 3 of the high E
	p, err := Place(voicing.Voicing{59, 60, 52, 67}, window, voicing.Drop2, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(4, p.TopString)
	assert.Equal(2, p.MelodyString)
	assert.Equal([4]int{8, 5, 9, 7}, p.Frets)
	assert.Equal([4]int{2, 3, 4, 5}, p.Strings)
}

func TestPlaceOtherDrops(t *testing.T) {
	assert := assert.New(t)

	p, err := Place(voicing.Voicing{67, 59, 72, 76}, window, voicing.Drop3, nil)
	assert.NoError(err)
	assert.Equal([4]int{12, 13, 12, 14}, p.Frets)
	assert.Equal([4]int{1, 2, 3, 5}, p.Strings)

	p, err = Place(voicing.Voicing{55, 71, 60, 76}, window, voicing.Drop24, nil)
	assert.NoError(err)
	assert.Equal([4]int{12, 12, 10, 10}, p.Frets)
	assert.Equal([4]int{1, 2, 4, 5}, p.Strings)
}

func TestPlaceKeepsTopStringForRepeatedTop(t *testing.T) {
	v := voicing.Voicing{59, 64, 67, 72}

	fresh, err := Place(v, window, voicing.Drop2, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.TopString)
	assert.Equal(t, [4]int{8, 8, 9, 9}, fresh.Frets)

	kept, err := Place(v, window, voicing.Drop2, &History{Top: 72, String: 4})
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(4, kept.TopString)
	assert.Equal(2, kept.MelodyString)
	assert.Equal([4]int{13, 12, 14, 14}, kept.Frets)
}

func TestPlaceIgnoresHistoryForDifferentTop(t *testing.T) {
	p, err := Place(voicing.Voicing{59, 64, 67, 72}, window, voicing.Drop2, &History{Top: 71, String: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, p.TopString)
}

func TestPlaceAbandonsImpossibleHistory(t *testing.T) {
	// string 1 leaves no room for the three lower voices
	p, err := Place(voicing.Voicing{59, 64, 67, 72}, window, voicing.Drop2, &History{Top: 72, String: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, p.TopString)
}

func TestPlaceFallsBackToOpenStrings(t *testing.T) {
	p, err := Place(voicing.Voicing{45, 50, 55, 59}, window, voicing.Drop2, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.True(p.Fallback)
	assert.Equal(0, p.MinFret)
	assert.Equal(4, p.TopString)
	assert.Equal([4]int{0, 0, 0, 0}, p.Frets)
}

func TestPlaceUnplayable(t *testing.T) {
	_, err := Place(voicing.Voicing{30, 50, 55, 60}, window, voicing.Drop2, nil)
	assert.ErrorIs(t, err, ErrVoicingUnplayable)

	_, err = Place(voicing.Voicing{48, 55}, window, voicing.Drop2, nil)
	assert.ErrorIs(t, err, ErrVoicingUnplayable)
}

func TestPlacementRespectsMinimumFret(t *testing.T) {
	voicings := []voicing.Voicing{
		{67, 71, 60, 76},
		{59, 60, 52, 67},
		{59, 64, 67, 72},
		{62, 64, 57, 70},
		{53, 57, 60, 64},
	}
	for _, v := range voicings {
		for _, d := range []voicing.Drop{voicing.Drop2, voicing.Drop3, voicing.Drop24} {
			p, err := Place(d.Apply(v), window, d, nil)
			if err != nil {
				assert.ErrorIs(t, err, ErrVoicingUnplayable)
				continue
			}
			for _, f := range p.Frets {
				assert.GreaterOrEqual(t, f, p.MinFret, "%s %s", d, v)
			}
			assert.GreaterOrEqual(t, p.MelodyString, 1)
			assert.LessOrEqual(t, p.MelodyString, 6)
		}
	}
}

func TestExceeds(t *testing.T) {
	p := Placement{Frets: [4]int{16, 15, 14, 14}}

	assert := assert.New(t)
	assert.True(p.Exceeds(window))
	assert.False(p.Exceeds(Window{MinFret: 5, MaxFret: 16}))
}

func TestHistoryFromPlacement(t *testing.T) {
	p, err := Place(voicing.Voicing{67, 71, 60, 76}, window, voicing.Drop2, nil)
	require.NoError(t, err)
	assert.Equal(t, &History{Top: 76, String: 5}, p.History())
}

func TestWindowValidate(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(DefaultWindow.Validate())
	assert.Error(Window{MinFret: -1, MaxFret: 5}.Validate())
	assert.Error(Window{MinFret: 7, MaxFret: 5}.Validate())
}
