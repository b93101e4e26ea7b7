package errors

import (
	"errors"
	"net/http"
)

// Exception is an application error that knows its HTTP status. Lower
// layers return these as sentinels; the handler layer maps them with
// StatusCode.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
