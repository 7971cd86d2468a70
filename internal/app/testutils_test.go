package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/booking"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/metinatakli/cinema-seat-booking/internal/repository"
	"github.com/metinatakli/cinema-seat-booking/internal/validator"
)

func newTestApplication(t *testing.T, repo domain.CinemaRepository) *Application {
	t.Helper()

	if repo == nil {
		repo = repository.NewMemoryCinemaRepository()
	}

	engine, err := booking.NewEngine(repo)
	if err != nil {
		t.Fatal(err)
	}

	return NewApp(
		Config{Port: 3000, Env: "test"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator.NewValidator(),
		engine,
	)
}

// executeRequest sends the request through the full router. A string body is
// sent as is so tests can post malformed JSON; anything else is marshalled.
func executeRequest(t *testing.T, app *Application, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	app.Routes().ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	t.Helper()

	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	var errorResp api.ValidationErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.RequestId == "" {
		t.Errorf("Error response has no request ID")
	}

	if tt.wantErrMessage != "" && errorResp.Error != tt.wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Error, tt.wantErrMessage)
	}

	if tt.wantStatus == http.StatusBadRequest && errorResp.Error == ErrFailedValidation && len(errorResp.ValidationErrors) == 0 {
		t.Errorf("Validation error response has no validation errors")
	}
}
