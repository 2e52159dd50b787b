package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/crucial707/userapi/internal/users"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// internalError logs err with the request ID and sends a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.ErrorContext(r.Context(), op,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}

var (
	// errInvalidJSON marks a body that is not a single JSON object.
	errInvalidJSON = errors.New("invalid JSON")
	// errBodyTooLarge marks a body cut off by the MaxBytes middleware.
	errBodyTooLarge = errors.New("request body too large")
)

// writeDecodeError maps a body decoding error to its response.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		JSONError(w, ErrMessageBodyTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	JSONError(w, ErrMessageInvalidJSON, http.StatusBadRequest)
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return errInvalidJSON
}

type jsonField struct {
	key string
	raw json.RawMessage
}

// decodeObject reads a body holding exactly one JSON object and returns its
// members in document order. An empty body yields no members.
func decodeObject(body io.Reader) ([]jsonField, error) {
	dec := json.NewDecoder(body)

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, decodeError(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errInvalidJSON
	}

	var fields []jsonField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, decodeError(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errInvalidJSON
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, decodeError(err)
		}
		fields = append(fields, jsonField{key: key, raw: raw})
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, decodeError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, decodeError(err)
	}
	return fields, nil
}

// stringValue decodes raw as a JSON string. null and non-string values fail.
func stringValue(raw json.RawMessage) (string, bool) {
	var v string
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

var createFields = []string{"name", "email", "password"}

// decodeCreateInput decodes and checks a create-user body. Declared fields
// are checked in order, a non-string value failing before its constraints.
// Unknown keys are reported only when every declared field passes.
func decodeCreateInput(body io.Reader) (users.CreateInput, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return users.CreateInput{}, err
	}

	var in users.CreateInput
	dst := map[string]*string{"name": &in.Name, "email": &in.Email, "password": &in.Password}
	notString := map[string]bool{}
	var unknown string
	for _, f := range fields {
		p, ok := dst[f.key]
		if !ok {
			if unknown == "" {
				unknown = f.key
			}
			continue
		}
		v, ok := stringValue(f.raw)
		notString[f.key] = !ok
		*p = v
	}

	verr := in.Validate()
	var first *users.ValidationError
	errors.As(verr, &first)
	for _, name := range createFields {
		if notString[name] {
			return in, users.NotStringError(name)
		}
		if first != nil && first.Field == name {
			return in, first
		}
	}
	if verr != nil {
		return in, verr
	}
	if unknown != "" {
		return in, users.NotAllowedError(unknown)
	}
	return in, nil
}
