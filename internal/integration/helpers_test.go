package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// compareResponse compares JSON bodies, ignoring fields that change per request.
func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	t.Helper()

	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func resetRedis(t testing.TB, app *TestApp) {
	t.Helper()

	require.NoError(t, app.Redis.FlushDB(context.Background()).Err())
}

// createCinema creates a cinema through the repository and buys the listed seats.
func createCinema(t testing.TB, app *TestApp, numSeats int, purchased ...int) int {
	t.Helper()

	ctx := context.Background()

	id, err := app.Repo.Create(ctx, numSeats)
	require.NoError(t, err)

	for _, seatID := range purchased {
		_, err := app.Repo.PurchaseSeat(ctx, id, seatID)
		require.NoError(t, err)
	}

	return id
}
