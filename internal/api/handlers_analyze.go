package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"robotadvisor/internal/analysis"
)

const (
	msgInvalidJSON      = "Invalid JSON payload"
	msgExtractionFailed = "Failed to analyze video process or received invalid task format."
	msgCatalogEmpty     = "No available robot definitions found (required for cost analysis)."
	msgUnexpected       = "An unexpected server error occurred."
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	req, err := analysis.RequestFromFields(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	var inputErr *analysis.InputError
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, inputErr.Error())
	case errors.Is(err, analysis.ErrExtraction):
		writeError(w, http.StatusInternalServerError, msgExtractionFailed)
	case errors.Is(err, analysis.ErrCatalog):
		writeError(w, http.StatusInternalServerError, msgCatalogEmpty)
	default:
		s.logger.Error("analysis failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgUnexpected)
	}
}

// decodeFields reads a JSON object body, keeping numbers as json.Number.
// It writes the 400 response itself when the body is unusable.
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return nil, false
	}
	return fields, true
}

// writeJSON encodes data before touching the response so an encoding failure
// still produces a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": msgUnexpected})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
