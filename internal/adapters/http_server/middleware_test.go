package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, target string, status int) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	m := chi.NewRouter()
	m.Use(Logger(zerolog.New(&buf)))
	m.Get("/api/hotels/filtered", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("{}"))
	})
	m.Get("/api/places", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "10.0.0.7:51234"
	m.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	return line
}

func TestLogger_HotelQueryFields(t *testing.T) {
	line := logLine(t, "/api/hotels/filtered?stars=4,5&hasBreakFast=true&minPrice=100&offset=6&limit=3", http.StatusOK)
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "/api/hotels/filtered", line["route"])
	assert.EqualValues(t, 200, line["status"])
	assert.EqualValues(t, 2, line["bytes"])
	assert.EqualValues(t, 3, line["filters"])
	assert.Equal(t, "6", line["offset"])
	assert.Equal(t, "3", line["limit"])
	assert.Equal(t, "10.0.0.7", line["client"])
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	assert.Equal(t, "warn", logLine(t, "/api/hotels/filtered", http.StatusBadRequest)["level"])
	assert.Equal(t, "error", logLine(t, "/api/hotels/filtered", http.StatusInternalServerError)["level"])
}

func TestLogger_OtherRoutesSkipQueryFields(t *testing.T) {
	line := logLine(t, "/api/places?stars=5", http.StatusOK)
	assert.NotContains(t, line, "filters")
	assert.NotContains(t, line, "offset")
}

func TestTimeout_WritesFailureEnvelope(t *testing.T) {
	h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/hotels", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var f failure
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &f))
	assert.False(t, f.Success)
	assert.Equal(t, "Tempo esgotado", f.Error)
}
