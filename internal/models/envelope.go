// internal/models/envelope.go
package models

// Envelope is the uniform response shape returned for every request.
// Failure envelopes set Error and, for validation failures, Issues and Raw.
type Envelope struct {
	Intent    Intent      `json:"intent"`
	Answer    *string     `json:"answer"`
	Citations []string    `json:"citations"`
	Data      interface{} `json:"data"`
	Sources   []Source    `json:"sources"`
	Providers []Provider  `json:"providers,omitempty"`

	Error  string   `json:"error,omitempty"`
	Issues []string `json:"issues,omitempty"`
	Raw    string   `json:"raw,omitempty"`

	// Kind is the error code of a failure envelope; transports map it to a status.
	Kind string `json:"-"`
}

// Failed reports whether the envelope carries a user-actionable failure.
func (e *Envelope) Failed() bool {
	return e.Error != ""
}
