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

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stretchwarp/pkg/cache"
	"github.com/matzehuels/stretchwarp/pkg/pipeline"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(fc, nil, logger), logger, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestRequestIDEcho(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestPresets(t *testing.T) {
	ts := newTestServer(t)

	body := decodeBody[map[string][]string](t, get(t, ts, "/v1/presets"))
	if got := strings.Join(body["presets"], ","); got != "cube,sheet" {
		t.Errorf("presets = %q, want cube,sheet", got)
	}

	resp := get(t, ts, "/v1/presets/cube")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var sc struct {
		Dimensions int `json:"dimensions"`
		Anchors    []struct {
			Origin []float64 `json:"origin"`
		} `json:"anchors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sc); err != nil {
		t.Fatal(err)
	}
	if sc.Dimensions != 3 || len(sc.Anchors) != 4 {
		t.Errorf("cube = %d dims, %d anchors; want 3, 4", sc.Dimensions, len(sc.Anchors))
	}

	if resp := get(t, ts, "/v1/presets/nope"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown preset status = %d, want 404", resp.StatusCode)
	}
}

func TestTransform(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/transform", `{"preset":"cube","points":[[125,125,125],[-125,-125,125]],"weights":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[TransformResponse](t, resp)
	if body.Scene != "cube" || body.Mode != "simple" {
		t.Errorf("scene, mode = %q, %q; want cube, simple", body.Scene, body.Mode)
	}
	if len(body.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(body.Points))
	}
	want := [][]float64{{-25, -25, -25}, {-125, -125, 125}}
	for i, p := range body.Points {
		for j := range p.Output {
			if d := p.Output[j] - want[i][j]; d > 1e-9 || d < -1e-9 {
				t.Errorf("point %d = %v, want %v", i, p.Output, want[i])
				break
			}
		}
		if len(p.Weights) != 4 {
			t.Errorf("point %d has %d weights, want 4", i, len(p.Weights))
		}
	}
}

func TestTransformInlineScene(t *testing.T) {
	ts := newTestServer(t)

	body := `{
		"scene": {"mode": "directional", "anchors": [{"origin": [0, 0], "target": [10, 0]}]},
		"mode": "SIMPLE",
		"points": [[5, 5]]
	}`
	resp := post(t, ts, "/v1/transform", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decodeBody[TransformResponse](t, resp)
	if got.Mode != "simple" {
		t.Errorf("mode = %q, want simple", got.Mode)
	}
	if p := got.Points[0].Output; p[0] != 15 || p[1] != 5 {
		t.Errorf("output = %v, want [15 5]", p)
	}
}

func TestTransformErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad json", `{`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unknown field", `{"preset":"cube","points":[[0,0,0]],"extra":1}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"no points", `{"preset":"cube"}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"no scene", `{"points":[[0,0]]}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"both sources", `{"preset":"cube","scene":{"anchors":[]},"points":[[0,0]]}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"bad scene", `{"scene":{"dimensions":4},"points":[[0,0]]}`, http.StatusBadRequest, "INVALID_SCENE"},
		{"bad mode", `{"preset":"sheet","mode":"radial","points":[[0,0]]}`, http.StatusBadRequest, "INVALID_MODE"},
		{"bad exponent", `{"preset":"sheet","exponent2":-1,"points":[[0,0]]}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"wrong arity", `{"preset":"sheet","points":[[0,0,0]]}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/transform", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decodeBody[errorResponse](t, resp)
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Error)
			}
			if body.RequestID == "" {
				t.Error("missing request_id")
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, WithMaxBodyBytes(64))
	body := `{"preset":"cube","points":[` + strings.Repeat("[1,2,3],", 40) + `[1,2,3]]}`
	resp := post(t, ts, "/v1/transform", body)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	body := `{"preset":"sheet","format":"svg","hide_anchors":true}`
	resp := post(t, ts, "/v1/render", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}
	first, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(first), "<svg") {
		t.Error("body is not an SVG document")
	}

	resp = post(t, ts, "/v1/render", body)
	if got := resp.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	second, _ := io.ReadAll(resp.Body)
	if string(first) != string(second) {
		t.Error("cached render differs")
	}
}

func TestRenderDenseLattice(t *testing.T) {
	ts := newTestServer(t)

	body := `{
		"scene": {"anchors": [{"origin": [0, 0]}], "grid": {"min": [0, 0], "max": [60000, 1], "step": 1}},
		"subdiv": 64
	}`
	resp := post(t, ts, "/v1/render", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if got := decodeBody[errorResponse](t, resp); got.Code != "INVALID_ARGUMENT" {
		t.Errorf("code = %q, want INVALID_ARGUMENT (%s)", got.Code, got.Error)
	}
}

func TestRenderPreset(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts, "/v1/presets/cube/render/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	tests := []struct {
		path   string
		status int
	}{
		{"/v1/presets/cube/render/gif", http.StatusBadRequest},
		{"/v1/presets/nope/render/svg", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if resp := get(t, ts, tt.path); resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestRoutingErrors(t *testing.T) {
	ts := newTestServer(t)

	if resp := get(t, ts, "/v2/nothing"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", resp.StatusCode)
	}
	if resp := get(t, ts, "/v1/render"); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/render status = %d, want 405", resp.StatusCode)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(nil, nil, logger), logger)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
