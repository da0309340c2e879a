package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"business-console/internal/common/errors"
)

// Response is the (status, payload) pair returned by every backend call.
type Response struct {
	Status int
	Body   json.RawMessage
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body (status %d)", r.Status)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response (status %d): %w", r.Status, err)
	}
	return nil
}

// Message returns the backend's message field, if any.
func (r *Response) Message() string {
	if len(r.Body) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// Err converts a non-2xx response into a StandardError. resource and id
// name the entity for the not-found message.
func (r *Response) Err(resource, id string) error {
	switch {
	case r.OK():
		return nil
	case r.Status == http.StatusNotFound:
		return errors.NewNotFoundError(resource, id)
	default:
		return errors.NewBackendRejectedError(r.Status, r.Message())
	}
}
