package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxJSONBodySize bounds request bodies decoded by ReadJSON. Inline photos
// travel inside item documents, so the limit is generous.
const maxJSONBodySize = 32 << 20

// ErrEmptyBody is returned by ReadJSON for requests without a body.
var ErrEmptyBody = errors.New("empty request body")

// WriteJSON serializes data to JSON and writes it with statusCode.
// If marshaling fails, it responds with 500 Internal Server Error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// ReadJSON decodes the request body into v.
func ReadJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodySize)).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("error decoding JSON body: %w", err)
	}

	return nil
}
