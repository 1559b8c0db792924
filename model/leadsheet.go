package model

// LeadSheet is the hand-written score format: a meter, chord symbols placed
// by beat within each bar and a compact melody line per bar.
type LeadSheet struct {
	Title    string        `json:"title,omitempty" yaml:"title,omitempty"`
	Composer string        `json:"composer,omitempty" yaml:"composer,omitempty"`
	Time     string        `json:"time,omitempty" yaml:"time,omitempty"`
	Measures []LeadMeasure `json:"measures" yaml:"measures"`
}

type LeadMeasure struct {
	// overrides the meter from this bar on
	Time   string      `json:"time,omitempty" yaml:"time,omitempty"`
	Chords []LeadChord `json:"chords,omitempty" yaml:"chords,omitempty"`
	// tokens like "E4:1", "r:2" or "G4:2~"
	Melody string `json:"melody,omitempty" yaml:"melody,omitempty"`
}

type LeadChord struct {
	At     float64 `json:"at" yaml:"at"`
	Symbol string  `json:"symbol" yaml:"symbol"`
}
