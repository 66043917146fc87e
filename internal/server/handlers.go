package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stretchwarp/pkg/buildinfo"
	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/pipeline"
	"github.com/matzehuels/stretchwarp/pkg/scene"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// SceneRequest names the scene a request works on: an inline JSON scene or
// a preset, plus engine overrides.
type SceneRequest struct {
	Scene     json.RawMessage `json:"scene,omitempty"`
	Preset    string          `json:"preset,omitempty"`
	Mode      string          `json:"mode,omitempty"`
	Exponent1 *float64        `json:"exponent1,omitempty"`
	Exponent2 *float64        `json:"exponent2,omitempty"`
	Exponent3 *float64        `json:"exponent3,omitempty"`
}

// TransformRequest is the body of POST /v1/transform.
type TransformRequest struct {
	SceneRequest
	Points  [][]float64 `json:"points"`
	Weights bool        `json:"weights,omitempty"`
}

// TransformResponse is the reply to POST /v1/transform.
type TransformResponse struct {
	Scene  string                 `json:"scene"`
	Mode   string                 `json:"mode"`
	Points []pipeline.MappedPoint `json:"points"`
}

// RenderRequest is the body of POST /v1/render. Format defaults to svg.
type RenderRequest struct {
	SceneRequest
	Format      string   `json:"format,omitempty"`
	Subdiv      int      `json:"subdiv,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Padding     float64  `json:"padding,omitempty"`
	Yaw         *float64 `json:"yaw,omitempty"`
	Pitch       *float64 `json:"pitch,omitempty"`
	HideAnchors bool     `json:"hide_anchors,omitempty"`
	Highlight   *int     `json:"highlight,omitempty"`
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"presets": scene.PresetNames()})
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	sc, err := scene.Preset(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, werrors.Wrap(werrors.ErrCodeFileNotFound, err, "preset not found"))
		return
	}
	var buf bytes.Buffer
	if err := scene.Encode(&buf, sc, scene.FormatJSON); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleRenderPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := scene.Preset(name); err != nil {
		s.fail(w, r, werrors.Wrap(werrors.ErrCodeFileNotFound, err, "preset not found"))
		return
	}
	opts := pipeline.Options{
		Preset:  name,
		Formats: []string{strings.ToLower(chi.URLParam(r, "format"))},
	}
	s.render(w, r, opts)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Points) == 0 {
		s.fail(w, r, werrors.New(werrors.ErrCodeInvalidArgument, "points are required"))
		return
	}

	opts, err := req.options()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sc, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	points, err := pipeline.TransformPoints(r.Context(), sc, opts, req.Points, req.Weights)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	mode := sc.WeightingMode()
	if opts.Mode != "" {
		mode, _ = stretch.ParseWeightingMode(opts.Mode)
	}
	writeJSON(w, http.StatusOK, TransformResponse{
		Scene:  sc.Name,
		Mode:   mode.String(),
		Points: points,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts, err := req.options()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, opts)
}

// render runs the full pipeline for a single output format and writes the
// artifact. X-Cache reports whether both stages came from the cache.
func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	if len(opts.Formats) != 1 {
		s.fail(w, r, werrors.New(werrors.ErrCodeInvalidArgument, "exactly one format per request"))
		return
	}
	format := opts.Formats[0]
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if result.CacheInfo.WarpHit && result.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	data := result.Artifacts[format]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus)
	if result.SceneHash != "" {
		w.Header().Set("ETag", strconv.Quote(result.SceneHash))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// options converts the scene part of a request into pipeline options.
func (req *SceneRequest) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Mode:      req.Mode,
		Exponent1: req.Exponent1,
		Exponent2: req.Exponent2,
		Exponent3: req.Exponent3,
	}
	hasScene := len(req.Scene) > 0 && string(req.Scene) != "null"
	switch {
	case hasScene && req.Preset != "":
		return opts, werrors.New(werrors.ErrCodeInvalidArgument, "give scene or preset, not both")
	case hasScene:
		sc, err := scene.Parse(req.Scene, scene.FormatJSON)
		if err != nil {
			return opts, err
		}
		opts.Scene = sc
	case req.Preset != "":
		opts.Preset = req.Preset
	default:
		return opts, werrors.New(werrors.ErrCodeInvalidArgument, "scene or preset is required")
	}
	return opts, nil
}

func (req *RenderRequest) options() (pipeline.Options, error) {
	opts, err := req.SceneRequest.options()
	if err != nil {
		return opts, err
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	opts.Subdiv = req.Subdiv
	opts.Scale = req.Scale
	opts.Padding = req.Padding
	opts.Yaw = req.Yaw
	opts.Pitch = req.Pitch
	opts.HideAnchors = req.HideAnchors
	opts.Highlight = req.Highlight
	return opts, nil
}

// decode reads a JSON body into v, rejecting unknown fields and oversized
// bodies. It writes the error response itself and reports success.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		s.fail(w, r, werrors.Wrap(werrors.ErrCodeInvalidArgument, err, "decode request"))
		return false
	}
	return true
}

// fail maps err to a status code and writes it as JSON.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(werrors.GetCode(err))
	if code == "" {
		code = string(werrors.ErrCodeInternal)
	}
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestIDFrom(r.Context()))
		if code == string(werrors.ErrCodeInternal) {
			msg = "internal error"
		}
	}
	writeError(w, r, status, code, msg)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch werrors.GetCode(err) {
	case werrors.ErrCodeInvalidArgument,
		werrors.ErrCodeInvalidScene,
		werrors.ErrCodeInvalidMode,
		werrors.ErrCodeInvalidFormat,
		werrors.ErrCodeInvalidPath,
		werrors.ErrCodeIndexOutOfRange:
		return http.StatusBadRequest
	case werrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case werrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      code,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
