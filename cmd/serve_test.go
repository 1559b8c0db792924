package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jsphweid/chordmelody/arrange"
	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/config"
	"github.com/jsphweid/chordmelody/db"
	"github.com/jsphweid/chordmelody/midi"
	"github.com/jsphweid/chordmelody/model"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func setup(t *testing.T) http.Handler {
	Setup(config.Default(), db.NewMemory())
	return NewRouter()
}

func do(h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func ptr(p pitch.Pitch) *pitch.Pitch {
	return &p
}

func mustSymbol(t *testing.T, figure string) chord.Symbol {
	sym, err := chord.Parse(figure)
	require.NoError(t, err)
	return sym
}

func oneBar(melody string, chords ...model.LeadChord) model.LeadSheet {
	return model.LeadSheet{
		Title:    "One Bar",
		Measures: []model.LeadMeasure{{Chords: chords, Melody: melody}},
	}
}

func TestCreateAndFetchArrangement(t *testing.T) {
	h := setup(t)
	w := do(h, http.MethodPost, "/arrangements", model.ArrangeRequestBody{
		Score: oneBar("E5:4", model.LeadChord{Symbol: "C"}),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.ArrangeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Id)

	var arr arrange.Arrangement
	require.NoError(t, json.Unmarshal(created.Arrangement, &arr))
	require.Len(t, arr.Entries, 1)
	assert.Equal(t, [4]int{12, 12, 12, 10}, arr.Entries[0].Placement.Frets)

	w = do(h, http.MethodGet, "/arrangements/"+created.Id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched model.ArrangeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.JSONEq(t, string(created.Arrangement), string(fetched.Arrangement))

	w = do(h, http.MethodGet, "/arrangements?id="+created.Id+"&id=nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaries map[string]db.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 1)
	assert.Equal(t, "One Bar", summaries[created.Id].Title)
}

func TestCreateArrangementErrors(t *testing.T) {
	h := setup(t)
	minFret := 20

	cases := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"malformed", "not an object", http.StatusBadRequest},
		{"bad chord", model.ArrangeRequestBody{Score: oneBar("E5:4", model.LeadChord{Symbol: "H7"})}, http.StatusBadRequest},
		{"bad drop", model.ArrangeRequestBody{
			Score:   oneBar("E5:4", model.LeadChord{Symbol: "C"}),
			Options: &model.Options{Drop: "drop9"},
		}, http.StatusBadRequest},
		{"inverted window", model.ArrangeRequestBody{
			Score:   oneBar("E5:4", model.LeadChord{Symbol: "C"}),
			Options: &model.Options{MinFret: &minFret},
		}, http.StatusBadRequest},
		{"pickup", model.ArrangeRequestBody{Score: oneBar("E5:1", model.LeadChord{Symbol: "C"})}, http.StatusUnprocessableEntity},
		{"unmapped melody", model.ArrangeRequestBody{Score: oneBar("G4:4", model.LeadChord{Symbol: "C7b5"})}, http.StatusUnprocessableEntity},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/arrangements", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"detail"`)
		})
	}
}

func TestGetMissingArrangement(t *testing.T) {
	h := setup(t)
	w := do(h, http.MethodGet, "/arrangements/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTooManyIds(t *testing.T) {
	h := setup(t)
	w := do(h, http.MethodGet, "/arrangements?"+strings.Repeat("id=x&", db.MaxBatch+1), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoice(t *testing.T) {
	h := setup(t)
	w := do(h, http.MethodPost, "/voicings", model.VoiceRequestBody{Symbol: "C", Melody: "E5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var entry arrange.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, []string{"1", "5", "7", "3"}, entry.Labels)
	assert.Equal(t, 1, entry.Placement.MelodyString)

	w = do(h, http.MethodPost, "/voicings", model.VoiceRequestBody{Symbol: "C", Melody: "X9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := setup(t)
	req := httptest.NewRequest(http.MethodOptions, "/voicings", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestInspect(t *testing.T) {
	Setup(config.Default(), db.NewMemory())
	s := model.Score{Measures: []model.Measure{{
		Number: 1, BarLength: 4, Meter: model.CommonTime,
		Notes:     []model.Note{{Offset: 0, Duration: 4, Pitch: ptr(76)}},
		Harmonies: []model.Harmony{{Offset: 0, Symbol: mustSymbol(t, "C")}},
	}}}
	arr, err := arrange.Arrange(s, cfg.Arrangement)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, arr))
	out := buf.String()
	assert.Contains(t, out, "1:12 2:12 3:12 4:10")
	assert.Contains(t, out, "1 5 7 3")
	assert.Contains(t, out, "[C4 G4 B4 E5]")
}

func TestPlaySendsEveryCueAndReleasesNotes(t *testing.T) {
	cues := []midi.Cue{
		{At: 0, Msg: gomidi.NoteOn(0, 60, 100)},
		{At: time.Millisecond, Msg: gomidi.NoteOn(1, 64, 100)},
		{At: 2 * time.Millisecond, Msg: gomidi.NoteOff(0, 60)},
	}
	var sent []gomidi.Message
	send := func(m gomidi.Message) error {
		sent = append(sent, m)
		return nil
	}
	require.NoError(t, play(context.Background(), cues, send))

	// three cues and a release for the note left on
	require.Len(t, sent, 4)
	var ch, key uint8
	assert.True(t, sent[3].GetNoteEnd(&ch, &key))
	assert.Equal(t, uint8(1), ch)
	assert.Equal(t, uint8(64), key)
}

func TestPlayWarnsWhenReleaseFails(t *testing.T) {
	var out bytes.Buffer
	log.SetOutput(&out)
	defer log.SetOutput(os.Stderr)

	cues := []midi.Cue{{At: 0, Msg: gomidi.NoteOn(0, 60, 100)}}
	send := func(m gomidi.Message) error {
		var ch, key uint8
		if m.GetNoteEnd(&ch, &key) {
			return errors.New("port closed")
		}
		return nil
	}
	require.NoError(t, play(context.Background(), cues, send))
	assert.Contains(t, out.String(), "[WARN] could not release note")
	assert.Contains(t, out.String(), "port closed")
	assert.Contains(t, out.String(), "key=60")
}

func TestPlayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cues := []midi.Cue{
		{At: 0, Msg: gomidi.NoteOn(0, 60, 100)},
		{At: time.Hour, Msg: gomidi.NoteOff(0, 60)},
	}
	var sent []gomidi.Message
	require.NoError(t, play(ctx, cues, func(m gomidi.Message) error {
		sent = append(sent, m)
		return nil
	}))
	assert.Len(t, sent, 2)
}
