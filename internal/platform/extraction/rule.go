package extraction

import (
	"context"
	"regexp"
	"strings"
)

// RuleExtractor is a deterministic, offline extractor used in development
// and tests when no model API key is configured. It understands the common
// "Name 500mg twice daily for 7 days" shape of prescription lines.
type RuleExtractor struct{}

func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

var (
	dosageRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mg|mcg|g|ml|units?)`)
	frequencyRe = regexp.MustCompile(`(?i)(once|twice|three times|four times)\s+(?:a\s+day|daily|per\s+day)|every\s+\d+\s+hours?`)
	durationRe  = regexp.MustCompile(`(?i)for\s+(\d+)\s+(days?|weeks?|months?)`)
)

func (r *RuleExtractor) Extract(_ context.Context, text string) (*Prescription, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	p := &Prescription{}

	if m := dosageRe.FindStringIndex(text); m != nil {
		p.Dosage = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text[m[0]:m[1]])), " ", "")
		p.Medication = strings.TrimSpace(text[:m[0]])
	} else {
		// No dosage: take the first token as the medication name.
		fields := strings.Fields(text)
		p.Medication = fields[0]
	}
	if m := frequencyRe.FindString(text); m != "" {
		p.Frequency = strings.ToLower(strings.Join(strings.Fields(m), " "))
	}
	if m := durationRe.FindString(text); m != "" {
		p.Duration = strings.ToLower(strings.Join(strings.Fields(m), " "))
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	return p, nil
}
