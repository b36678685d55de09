package requesting

import (
	"fmt"
	"net/http"
	"os"
)

type ErrorKind string

const (
	TimeoutError    ErrorKind = "TIMEOUT_ERROR"
	ConnectionError ErrorKind = "CONNECTION_ERROR"
	UpstreamError   ErrorKind = "UPSTREAM_ERROR"
)

// Error describes a failed outgoing request.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func isValidResponse(code int) bool {
	return code >= 200 && code <= 299
}

// RequestErrors turns transport failures and non 2xx answers into *Error.
// The body of a rejected response is closed.
func RequestErrors(response *http.Response, err error) (*http.Response, error) {
	if err != nil {
		if os.IsTimeout(err) {
			return nil, &Error{Kind: TimeoutError, Message: err.Error()}
		}

		return nil, &Error{Kind: ConnectionError, Message: err.Error()}
	}

	if err := CheckStatus(response.StatusCode); err != nil {
		response.Body.Close()
		return nil, err
	}

	return response, nil
}

// CheckStatus returns an UpstreamError for codes outside 2xx.
func CheckStatus(code int) error {
	if isValidResponse(code) {
		return nil
	}

	return &Error{
		Kind:       UpstreamError,
		StatusCode: code,
		Message:    fmt.Sprintf("upstream returned status code %d", code),
	}
}
