package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectfour/solver/internal/httpapi"
)

func newTestEngine() http.Handler {
	return httpapi.New(nil, zerolog.Nop())
}

// Scenario: GET /api/44 returns 200 with a positive score and the
// center column. This drives the unbounded solver, so it is skipped
// with -short.
func TestGetBestColSucceedsOnValidPosition(t *testing.T) {
	if testing.Short() {
		t.Skip("deep search, run without -short")
	}
	engine := newTestEngine()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/44", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Col   int  `json:"col"`
		Score int8 `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Col)
	assert.Greater(t, body.Score, int8(0))
}

func TestGetMalformedPositionReturns400(t *testing.T) {
	engine := newTestEngine()
	for _, path := range []string{"/api/4450", "/api/4458", "/api/error", "/api/44444444"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestNonGETRequestReturns400RegardlessOfPath(t *testing.T) {
	engine := newTestEngine()
	for _, path := range []string{"/api/44", "/", "/unknown", "/api/"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestUnknownGETPathReturns404(t *testing.T) {
	engine := newTestEngine()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// "/api/414141" leaves the mover with an immediate win (a vertical
// triple in column 4, the first column BestCol tries), so BestCol
// short-circuits before any deep search — cheap enough to drive the
// real success path in a unit test.
func TestCORSHeaderIsSetOnSuccessfulResponse(t *testing.T) {
	engine := newTestEngine()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/414141", nil)
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// The original webserver only ever writes Access-Control-Allow-Origin
// on its 200 branch; the 400/404 branches send bare responses (see
// original_source/backend/src/main.rs's webserver function).
func TestCORSHeaderIsAbsentOnErrorResponses(t *testing.T) {
	engine := newTestEngine()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/4450", nil)
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/unknown", nil)
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
