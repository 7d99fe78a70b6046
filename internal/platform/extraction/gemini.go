package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const promptTemplate = `Extract medication information from this prescription text. ` +
	`Return ONLY a JSON object with these exact keys: medication, dosage, frequency, duration. ` +
	`Example: {"medication": "Amoxicillin", "dosage": "500mg", "frequency": "twice daily", "duration": "7 days"}. ` +
	`Here's the prescription text to analyze: %q`

// GeminiExtractor calls a Google generative-language style generateContent
// endpoint to extract prescription fields from free text.
type GeminiExtractor struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// GeminiOption configures a GeminiExtractor.
type GeminiOption func(*GeminiExtractor)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(url string) GeminiOption {
	return func(g *GeminiExtractor) { g.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *GeminiExtractor) { g.client = c }
}

func NewGeminiExtractor(apiKey, model string, timeout time.Duration, opts ...GeminiOption) *GeminiExtractor {
	g := &GeminiExtractor{
		baseURL: defaultBaseURL,
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Extract sends the prescription text to the model and coerces the answer
// into a Prescription. The caller's ctx governs timeout and cancellation.
func (g *GeminiExtractor) Extract(ctx context.Context, text string) (*Prescription, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, text)}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("extraction: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction: call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.ReadAll(io.LimitReader(resp.Body, 1024)) // drain
		return nil, fmt.Errorf("extraction: model returned status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	answer := candidateText(gr)
	if answer == "" {
		return nil, ErrEmptyResponse
	}

	p := &Prescription{}
	if err := json.Unmarshal([]byte(stripFences(answer)), p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func candidateText(gr generateResponse) string {
	if len(gr.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

// stripFences removes markdown code fences that models wrap JSON answers in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
