// Package extraction wraps the external language-understanding service that
// turns raw prescription text into a structured best-guess record. The rest
// of the system only depends on the Extractor contract; the concrete client
// owns the wire protocol, authentication, and response-format coercion.
package extraction

import (
	"context"
	"errors"
	"strings"
)

// Prescription is the structured guess returned by the collaborator.
// Frequency and Duration are optional; absence is the empty string.
type Prescription struct {
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// Complete reports whether the optional fields were filled in. Incomplete
// extractions lower the downstream confidence score.
func (p *Prescription) Complete() bool {
	return p.Frequency != "" && p.Duration != ""
}

var (
	// ErrEmptyResponse is returned when the collaborator answers with no
	// usable text at all.
	ErrEmptyResponse = errors.New("extraction: empty response from model")
	// ErrMalformedResponse is returned when the collaborator's answer
	// cannot be coerced into a Prescription.
	ErrMalformedResponse = errors.New("extraction: malformed response from model")
)

// Extractor extracts structured medication information from free text.
// Implementations must honor ctx cancellation and deadlines.
type Extractor interface {
	Extract(ctx context.Context, text string) (*Prescription, error)
}

// validate checks the minimum contract: a medication name must be present.
func validate(p *Prescription) error {
	if strings.TrimSpace(p.Medication) == "" {
		return ErrMalformedResponse
	}
	return nil
}
