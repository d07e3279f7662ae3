package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/applytrack/applytrack/internal/domain/model"
	apperrors "github.com/applytrack/applytrack/internal/errors"
)

// maxJSONBody caps API request bodies.
const maxJSONBody = 64 << 10

var errUnauthorized = errors.New("Unauthorized") //nolint:staticcheck // client-facing text

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error  string             `json:"error"`
	Code   string             `json:"code,omitempty"`
	Fields *model.FieldErrors `json:"fields,omitempty"`
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	msg := http.StatusText(p.Code)
	if p.Err != nil {
		msg = p.Err.Error()
	}
	WriteJSON(w, p.Code, errorBody{Error: msg, Code: p.ErrCode})
}

// WriteAppError maps err to a status code and writes its client-safe message.
// Errors without an application code are reported as fallback with a 500.
func WriteAppError(w http.ResponseWriter, err error, fallback string) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	body := errorBody{Error: apperrors.Message(err, fallback), Code: string(code)}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		fields := verr.Fields
		body.Fields = &fields
	}
	WriteJSON(w, apperrors.HTTPStatus(code), body)
}
