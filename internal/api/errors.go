package api

import (
	"encoding/json"
	"fmt"
)

// APIError represents a request that reached the server and was rejected.
// Status and Data let callers distinguish it from transport failures, which
// carry neither.
type APIError struct {
	Status  int
	Message string
	// Data is the full parsed error body; nil when the body was not JSON.
	Data map[string]any
}

func (e *APIError) Error() string {
	return e.Message
}

// FieldErrors returns the structured per-field validation messages when the
// body carried an `errors` map (field -> [messages]), else nil.
func (e *APIError) FieldErrors() map[string][]string {
	raw, ok := e.Data["errors"].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for field, v := range raw {
		switch messages := v.(type) {
		case []any:
			for _, m := range messages {
				if s, ok := m.(string); ok {
					out[field] = append(out[field], s)
				}
			}
		case string:
			out[field] = append(out[field], messages)
		}
	}
	return out
}

// newAPIError builds an APIError from a non-2xx response body, probing the
// parsed body for a message field in order: message, error, detail.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fmt.Sprintf("request failed with status %d", status),
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apiErr
	}
	apiErr.Data = parsed

	for _, key := range []string{"message", "error", "detail"} {
		if msg, ok := parsed[key].(string); ok && msg != "" {
			apiErr.Message = msg
			break
		}
	}
	return apiErr
}
