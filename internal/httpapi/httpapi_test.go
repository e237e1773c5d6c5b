package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/field-planner/internal/geofence"
	"github.com/rcliao/field-planner/internal/metrics"
	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/planner"
	"github.com/rcliao/field-planner/internal/recommend"
	"github.com/rcliao/field-planner/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	now := time.Date(2026, 3, 1, 10, 15, 0, 0, time.Local)
	reg := prometheus.NewRegistry()
	p, err := planner.Open(context.Background(), planner.Options{
		KV:       store.NewMemoryKV(),
		Verifier: geofence.NewVerifier(geofence.RequestProvider{}, geofence.Options{}, nil),
		Engine:   recommend.NewEngine(rand.New(rand.NewSource(3)), nil),
		Metrics:  metrics.New(reg),
		Clock:    func() time.Time { return now },
	})
	require.NoError(t, err)
	return NewRouter(&Handlers{Planner: p}, reg)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthzAndRequestID(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestSchedule(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/schedule?category=transit", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Entries []model.ScheduleEntry `json:"entries"`
		Total   int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	for _, e := range body.Entries {
		assert.Equal(t, model.CategoryTransit, e.Category())
	}

	w = do(r, http.MethodGet, "/api/schedule?slot=dawn", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendQuota(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodPost, "/api/recommend", `{"category":"shop"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(r, http.MethodPost, "/api/recommend", `{"category":"shop"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "quota_exceeded", body["error"])
	assert.Equal(t, float64(30*time.Minute/time.Millisecond), body["remaining_ms"])

	w = do(r, http.MethodGet, "/api/recommend/cooldown", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining_ms":1800000`)

	w = do(r, http.MethodPost, "/api/recommend", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `field_planner_recommendations_total{result="quota_exceeded"} 1`)
}

func TestVerify(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/entries/base-2026-03-01-1/verify", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "location_unavailable")

	for _, body := range []string{`{}`, `null`, `{"lat":37.4979}`, `{"lng":127.0276}`} {
		w = do(r, http.MethodPost, "/api/entries/base-2026-03-01-1/verify", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		assert.Contains(t, w.Body.String(), "invalid_input", body)
	}

	w = do(r, http.MethodGet, "/api/stats", "")
	assert.Contains(t, w.Body.String(), `"total_visits":0`)

	w = do(r, http.MethodPost, "/api/entries/base-2026-03-01-1/verify", `{"lat":37.4979,"lng":127.0276}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res planner.VerifyResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, geofence.Verified, res.Outcome)
	assert.True(t, res.Inserted)

	w = do(r, http.MethodPost, "/api/entries/nope/verify", `{"lat":37.4979,"lng":127.0276}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_visits":1`)
}

func TestManualLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/manual", `{"title":"Flyers","start_time":"10:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var e model.ScheduleEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.True(t, strings.HasPrefix(e.ID, "manual-"))

	w = do(r, http.MethodPut, "/api/manual/"+e.ID, `{"memo":"door 4"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "door 4")

	w = do(r, http.MethodPut, "/api/manual/base-2026-03-01-1", `{"title":"x"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/manual", `{"title":"Bad","start_time":"10:99"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodDelete, "/api/manual/"+e.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodDelete, "/api/manual/"+e.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransitions(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/entries/base-2026-03-01-2/skip", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/api/entries/base-2026-03-01-2/start", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestNotificationsAndSettings(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread":12`)

	w = do(r, http.MethodPost, "/api/notifications/read-all", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodPost, "/api/notifications/notif-missing/read", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/api/settings", `{"font_scale":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"font_scale":1.4`)
	assert.Contains(t, w.Body.String(), `"senior_mode":true`)

	w = do(r, http.MethodGet, "/api/schedule/senior", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "base-2026-03-01-2")
}
