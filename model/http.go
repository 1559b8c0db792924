package model

import "encoding/json"

// Options overrides the server's defaults for a single request. Empty fields
// keep the default.
type Options struct {
	MinFret *int   `json:"minFret,omitempty"`
	MaxFret *int   `json:"maxFret,omitempty"`
	Drop    string `json:"drop,omitempty"`
	Major   string `json:"major,omitempty"`
	Minor   string `json:"minor,omitempty"`
}

type ArrangeRequestBody struct {
	Score   LeadSheet `json:"score"`
	Options *Options  `json:"options,omitempty"`
}

type ArrangeResponse struct {
	Id          string          `json:"id"`
	Arrangement json.RawMessage `json:"arrangement"`
}

type VoiceRequestBody struct {
	Symbol  string   `json:"symbol"`
	Melody  string   `json:"melody,omitempty"`
	Options *Options `json:"options,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
