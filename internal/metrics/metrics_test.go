package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestRecorderExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.RecordGuess("Perfect")
	r.RecordGuess("Perfect")
	r.RecordDictionaryMiss()
	r.RecordRound("won")
	r.RecordHTTPRequest(http.MethodPost, "/api/calculate-similarity", 200, 15*time.Millisecond)

	body := scrape(t, r)
	for _, want := range []string{
		`semord_guesses_scored_total{band="Perfect"} 2`,
		`semord_dictionary_misses_total 1`,
		`semord_rounds_total{outcome="won"} 1`,
		`http_requests_total{method="POST",route="/api/calculate-similarity",status="200"} 1`,
		`http_request_duration_seconds_count{method="POST",route="/api/calculate-similarity"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.RecordGuess("Far")
	r.RecordDictionaryMiss()
	r.RecordRound("gave_up")
	r.RecordHTTPRequest(http.MethodGet, "/", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("nil recorder handler status = %d, want 404", rec.Code)
	}
}
