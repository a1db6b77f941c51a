package daemon

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// maxRequestBytes caps admin request bodies.
const maxRequestBytes = 1 << 20

// writeJSON serializes v into a buffer first so a failed encode never sends a
// partial response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

// writeJSONPretty pretty prints when the pretty=1 or pretty=true query parameter is set.
func writeJSONPretty(w http.ResponseWriter, r *http.Request, status int, v any) error {
	if r != nil {
		if p := r.URL.Query().Get("pretty"); p == "1" || p == "true" {
			b, err := json.MarshalIndent(v, "", "  ")
			if err == nil {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(status)
				if _, werr := w.Write(append(b, '\n')); werr != nil {
					slog.Error("failed writing pretty JSON", logfields.Error(werr))
					return werr
				}
				return nil
			}
			slog.Warn("pretty JSON marshal failed, falling back to standard encode", logfields.Error(err))
		}
	}
	return writeJSON(w, status, v)
}

// readJSON decodes a bounded request body into v.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid request body").Build()
	}
	return nil
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

// writeError maps a classified error to an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	category := ""
	if ce, ok := ferrors.AsClassified(err); ok {
		category = string(ce.Category())
		switch ce.Category() {
		case ferrors.CategoryValidation, ferrors.CategoryConfig:
			status = http.StatusBadRequest
		case ferrors.CategoryNotFound:
			status = http.StatusNotFound
		case ferrors.CategoryNetwork, ferrors.CategoryProvider:
			status = http.StatusBadGateway
		}
	}
	if status >= http.StatusInternalServerError {
		slog.Error("Admin request failed", logfields.Error(err))
	}
	_ = writeJSON(w, status, errorResponse{Error: err.Error(), Category: category})
}
