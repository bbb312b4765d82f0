package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/pipeline"
)

const msgInternal = "internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

type messageRequest struct {
	Message           string `json:"message"`
	DocumentNamespace string `json:"documentNamespace"`
	FileID            string `json:"fileId"`
}

// envelope maps the body to a query envelope. fileId is accepted when
// documentNamespace is absent.
func (m messageRequest) envelope() model.QueryEnvelope {
	ns := m.DocumentNamespace
	if ns == "" {
		ns = m.FileID
	}
	return model.QueryEnvelope{Message: m.Message, Namespace: strings.TrimSpace(ns)}
}

type firmRequest struct {
	FirmName string `json:"firmName"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !decode(w, r, messageLoader, &req) {
		return
	}

	resp, err := s.svc.Analyze(r.Context(), req.envelope())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if wantsStream(r) {
		writeStream(w, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req firmRequest
	if !decode(w, r, firmLoader, &req) {
		return
	}

	resp, err := s.svc.Profile(r.Context(), req.FirmName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFirmTicker(w http.ResponseWriter, r *http.Request) {
	var req firmRequest
	if !decode(w, r, firmLoader, &req) {
		return
	}

	resp, err := s.svc.FirmTicker(r.Context(), req.FirmName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// fail maps a pipeline error to a response. Input errors are 400; anything
// else is logged and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if eris.Is(err, pipeline.ErrEmptyMessage) || eris.Is(err, pipeline.ErrEmptyFirmName) {
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "pipeline: "))
		return
	}
	zap.L().Error("server: request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// decode reads, validates and unmarshals the body. It writes the 400 and
// returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, schema gojsonschema.JSONLoader, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body too large or unreadable")
		return false
	}
	if err := validate(schema, body); err != nil {
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "server: "))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func wantsStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// writeStream sends the narrative as one data event, then a done event
// carrying the JSON body.
func writeStream(w http.ResponseWriter, resp *model.AnalysisResponse) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var b strings.Builder
	for _, line := range strings.Split(resp.Narrative, "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")

	body, err := json.Marshal(resp)
	if err != nil {
		body = []byte("{}")
	}
	fmt.Fprintf(&b, "event: done\ndata: %s\n\n", body)

	_, _ = io.WriteString(w, b.String())
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
