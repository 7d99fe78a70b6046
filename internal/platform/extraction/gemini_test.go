package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func geminiServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, answer)
		w.Write([]byte(resp))
	}))
}

func newTestExtractor(url string) *GeminiExtractor {
	return NewGeminiExtractor("test-key", "gemini-2.0-flash", 2*time.Second, WithBaseURL(url))
}

func TestGeminiExtractor_ParsesAnswer(t *testing.T) {
	srv := geminiServer(t, `{"medication":"Amoxicillin","dosage":"500mg","frequency":"twice daily","duration":"7 days"}`)
	defer srv.Close()

	p, err := newTestExtractor(srv.URL).Extract(context.Background(), "Amoxicillin 500mg twice daily for 7 days")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Medication != "Amoxicillin" || p.Dosage != "500mg" {
		t.Errorf("unexpected prescription: %+v", p)
	}
	if !p.Complete() {
		t.Error("expected complete extraction")
	}
}

func TestGeminiExtractor_StripsCodeFences(t *testing.T) {
	srv := geminiServer(t, "```json\n{\"medication\":\"Metformin\",\"dosage\":\"500mg\"}\n```")
	defer srv.Close()

	p, err := newTestExtractor(srv.URL).Extract(context.Background(), "Metformin 500mg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Medication != "Metformin" {
		t.Errorf("expected Metformin, got %q", p.Medication)
	}
	if p.Complete() {
		t.Error("expected incomplete extraction without frequency/duration")
	}
}

func TestGeminiExtractor_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), "whatever")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGeminiExtractor_MalformedAnswer(t *testing.T) {
	srv := geminiServer(t, "I cannot extract that prescription.")
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), "whatever")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestGeminiExtractor_MissingMedication(t *testing.T) {
	srv := geminiServer(t, `{"dosage":"500mg"}`)
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), "500mg of something")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestGeminiExtractor_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), "whatever")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestGeminiExtractor_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and can
		// observe the client disconnect; otherwise Done never fires and Close
		// deadlocks waiting on this handler.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestExtractor(srv.URL).Extract(ctx, "whatever")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}
