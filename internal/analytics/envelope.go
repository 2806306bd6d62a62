// Package analytics is the deterministic computation engine: a closed
// set of query operations over an immutable dataset snapshot. Every
// operation is a pure function of (snapshot, date anchor, typed
// parameters) and returns a uniform success/error envelope suitable
// for a natural-language layer to narrate.
package analytics

import (
	"encoding/json"
)

// ErrorType classifies an error envelope.
type ErrorType string

const (
	// ErrorInvalidInput marks malformed or out-of-range parameters.
	// Recoverable by the caller correcting them.
	ErrorInvalidInput ErrorType = "invalid_input"
	// ErrorNoData marks filters that produced an empty working set.
	// Recoverable by loosening the filters.
	ErrorNoData ErrorType = "no_data"
	// ErrorComputation marks an internal aggregation failure. Rare;
	// indicates a missing guard, not a caller mistake.
	ErrorComputation ErrorType = "computation_error"
)

// Error is the structured error envelope. OK is always false; it is a
// field rather than implied so the wire contract is self-describing.
type Error struct {
	OK          bool      `json:"ok"`
	Type        ErrorType `json:"error_type"`
	Message     string    `json:"message"`
	Suggestions []string  `json:"suggestions"`
}

// Meta is attached to every successful response.
type Meta struct {
	DateRangeStart string            `json:"date_range_start"`
	DateRangeEnd   string            `json:"date_range_end"`
	FiltersApplied map[string]string `json:"filters_applied"`
	RecordCount    int               `json:"record_count"`
	DataAsOf       string            `json:"data_as_of"`
}

// Header opens every successful response.
type Header struct {
	Tool    string `json:"tool_used"`
	Summary string `json:"summary"`
}

// Envelope is the tagged union every operation returns: exactly one of
// Result (an operation-specific payload struct) or Err is set.
type Envelope struct {
	Result any
	Err    *Error
}

// OK reports whether the envelope carries a success payload.
func (e Envelope) OK() bool {
	return e.Err == nil
}

// MarshalJSON emits either the payload or the error object, never a
// wrapper around them: the envelope is the JSON contract itself.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Err != nil {
		return json.Marshal(e.Err)
	}
	return json.Marshal(e.Result)
}

func success(result any) Envelope {
	return Envelope{Result: result}
}

func invalidInput(message string, suggestions ...string) Envelope {
	return Envelope{Err: &Error{Type: ErrorInvalidInput, Message: message, Suggestions: suggestions}}
}

func noData(message string, suggestions ...string) Envelope {
	return Envelope{Err: &Error{Type: ErrorNoData, Message: message, Suggestions: suggestions}}
}
