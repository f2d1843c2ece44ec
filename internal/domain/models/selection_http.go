package models

// SelectHTTPRequest is the transport shape of a selection request.
// Defined in domain for consistency and reuse.
type SelectHTTPRequest struct {
	Instrument string   `json:"instrument" validate:"required"`
	IncludeML  bool     `json:"include_ml"`
	Horizon    string   `json:"horizon" validate:"omitempty,oneof=1d 1w 1m"`
	Depth      string   `json:"depth" default:"standard" validate:"oneof=quick standard deep"`
	Factors    []string `json:"factors"`
}
