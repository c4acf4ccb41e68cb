package mattermost

import (
	"fmt"
	"net/http"

	"github.com/singnet/mattermost-notify/models"
)

// APICallError is returned by every authenticated API call that fails, either in transport or
// with a non-2xx response. It names the request so the operator can reproduce it.
type APICallError struct {
	Op     string
	Method string
	URL    string
	Err    error
}

func (e *APICallError) Error() string {
	s := fmt.Sprintf("error %s: %s %s", e.Op, e.Method, e.URL)
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", s, e.Err.Error())
	}
	return s
}

func (e *APICallError) Unwrap() error { return e.Err }

// DeliveryError is returned when a webhook post fails.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("error sending message: %s", e.Err.Error())
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ResponseError is a non-2xx answer from the API.
type ResponseError struct {
	StatusCode int
	ID         string
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("unexpected status %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func newResponseError(statusCode int, body []byte) *ResponseError {
	e := &ResponseError{StatusCode: statusCode}
	var apiErr apiError
	if err := models.JSON.Unmarshal(body, &apiErr); err == nil {
		e.ID = apiErr.ID
		e.Message = apiErr.Message
	}
	return e
}

// decodeResponse returns a validation callback that fails on non-2xx responses and otherwise
// decodes the body into out. A nil out skips decoding.
func decodeResponse(out any) func(body []byte, statusCode int) error {
	return func(body []byte, statusCode int) error {
		if statusCode/100 != 2 {
			return newResponseError(statusCode, body)
		}
		if out == nil {
			return nil
		}
		if err := models.JSON.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
}
