package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/bayneri/lossbudget/internal/standards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := New(":0", budget.New(standards.Default()), zap.NewNop())
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeError(t *testing.T, data []byte) ErrResponse {
	t.Helper()
	var out ErrResponse
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestComputeBudget(t *testing.T) {
	ts := newTestServer(t)
	resp, data := postJSON(t, ts, "/api/v1/budget", `{
		"segments": [{"fiber": "OS2", "wavelength": "1550nm", "distance": 5, "unit": "km", "splices": 2, "connectors": 4}],
		"safetyMarginDb": 3
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var out struct {
		Status         string           `json:"status"`
		ReferenceFiber string           `json:"referenceFiber"`
		TotalLossDb    float64          `json:"totalLossDb"`
		Verdicts       []budget.Verdict `json:"budgetResults"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, budget.StatusPass, out.Status)
	assert.Equal(t, "OS2", out.ReferenceFiber)
	assert.InDelta(t, 5.2, out.TotalLossDb, 1e-9)
	require.NotEmpty(t, out.Verdicts)
	assert.Equal(t, standards.Speed10G, out.Verdicts[0].Speed)
	assert.InDelta(t, 4.8, out.Verdicts[0].MarginDb, 1e-9)
}

func TestComputeBudgetDefaultsSafetyMargin(t *testing.T) {
	ts := newTestServer(t)
	resp, data := postJSON(t, ts, "/api/v1/budget", `{
		"segments": [{"fiber": "om3", "wavelength": "850", "distance": 200, "splices": 1, "connectors": 2}]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var out struct {
		Status         string  `json:"status"`
		SafetyMarginDb float64 `json:"safetyMarginDb"`
		TotalLossDb    float64 `json:"totalLossDb"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, budget.DefaultSafetyMarginDb, out.SafetyMarginDb)
	assert.InDelta(t, 4.2, out.TotalLossDb, 1e-9)
	assert.Equal(t, budget.StatusFail, out.Status)
}

func TestComputeBudgetErrors(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		status  int
		code    string
		segment int
	}{
		{
			name:   "no-segments",
			body:   `{"segments": []}`,
			status: http.StatusBadRequest,
			code:   CodeInvalidInput,
		},
		{
			name:   "bad-json",
			body:   `{"segments": [`,
			status: http.StatusBadRequest,
			code:   CodeInvalidInput,
		},
		{
			name:   "non-numeric-distance",
			body:   `{"segments": [{"fiber": "OS2", "wavelength": "1550nm", "distance": "far"}]}`,
			status: http.StatusBadRequest,
			code:   CodeInvalidInput,
		},
		{
			name:    "negative-splices",
			body:    `{"segments": [{"fiber": "OS2", "wavelength": "1550nm", "distance": 1, "splices": -1}]}`,
			status:  http.StatusBadRequest,
			code:    CodeInvalidInput,
			segment: 1,
		},
		{
			name:    "missing-fiber",
			body:    `{"segments": [{"wavelength": "1550nm", "distance": 1}]}`,
			status:  http.StatusBadRequest,
			code:    CodeInvalidInput,
			segment: 1,
		},
		{
			name:    "missing-wavelength",
			body:    `{"segments": [{"fiber": "OS2", "distance": 1}]}`,
			status:  http.StatusBadRequest,
			code:    CodeInvalidInput,
			segment: 1,
		},
		{
			name:    "unknown-fiber",
			body:    `{"segments": [{"fiber": "OS2", "wavelength": "1550nm", "distance": 1}, {"fiber": "OM9", "wavelength": "850nm", "distance": 1}]}`,
			status:  http.StatusBadRequest,
			code:    CodeUnknownKey,
			segment: 2,
		},
		{
			name:    "unknown-wavelength",
			body:    `{"segments": [{"fiber": "OM3", "wavelength": "1550nm", "distance": 1}]}`,
			status:  http.StatusBadRequest,
			code:    CodeUnknownKey,
			segment: 1,
		},
		{
			name:    "out-of-range",
			body:    `{"segments": [{"fiber": "OS2", "wavelength": "1550nm", "distance": 1}, {"fiber": "OM4", "wavelength": "850nm", "distance": 401}]}`,
			status:  http.StatusUnprocessableEntity,
			code:    CodeOutOfRange,
			segment: 2,
		},
		{
			name:   "negative-margin",
			body:   `{"safetyMarginDb": -1, "segments": [{"fiber": "OS2", "wavelength": "1550nm", "distance": 1}]}`,
			status: http.StatusBadRequest,
			code:   CodeInvalidInput,
		},
	}

	ts := newTestServer(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, data := postJSON(t, ts, "/api/v1/budget", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(data))
			out := decodeError(t, data)
			assert.Equal(t, tc.code, out.Code)
			assert.Equal(t, tc.segment, out.Segment)
			assert.NotEmpty(t, out.Message)
		})
	}
}

func TestComputeWavelengths(t *testing.T) {
	ts := newTestServer(t)
	resp, data := postJSON(t, ts, "/api/v1/wavelengths", `{"fiber": "OM5", "distance": 100, "connectors": 2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var out WavelengthsResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, standards.OM5, out.Fiber)
	assert.InDelta(t, 0.1, out.DistanceKm, 1e-9)
	require.Len(t, out.Wavelengths, 2)
	assert.Equal(t, standards.Wavelength("850nm"), out.Wavelengths[0].Wavelength)
	assert.Equal(t, standards.Wavelength("953nm"), out.Wavelengths[1].Wavelength)
	assert.InDelta(t, 0.1*2.4+0.6, out.Wavelengths[0].TypicalLossDb, 1e-9)
}

func TestListAndGetFibers(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/fibers")
	require.NoError(t, err)
	var list []FiberResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list, 4)
	assert.Equal(t, standards.OM3, list[0].ID)

	resp, err = http.Get(ts.URL + "/api/v1/fibers/om3")
	require.NoError(t, err)
	var one FiberResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&one))
	resp.Body.Close()
	assert.Equal(t, standards.OM3, one.ID)
	assert.Equal(t, 300.0, one.MaxDistanceMeters)
	for _, b := range one.Budgets {
		assert.NotEqual(t, standards.Speed50G, b.Speed)
	}

	resp, err = http.Get(ts.URL + "/api/v1/fibers/OM9")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	postJSON(t, ts, "/api/v1/budget", `{"segments": [{"fiber": "OS2", "wavelength": "1550nm", "distance": 1}]}`)
	postJSON(t, ts, "/api/v1/budget", `{"segments": []}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `lossbudget_calculations_total{endpoint="budget",outcome="pass"} 1`)
	assert.Contains(t, body, `lossbudget_calculations_total{endpoint="budget",outcome="rejected"} 1`)
	assert.Contains(t, body, `lossbudget_total_loss_db_count 1`)
	assert.Contains(t, body, `path="/api/v1/budget"`)
}

func TestRunShutsDown(t *testing.T) {
	s, err := New("127.0.0.1:0", budget.New(standards.Default()), zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
