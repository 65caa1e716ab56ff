package client

import "fmt"

// ServerError is a failed request the server answered, carrying the HTTP
// status and, when the body was an ows:ExceptionReport, the exception code
// and text.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wcps server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("wcps server error %d: %s", e.Status, e.Message)
}
