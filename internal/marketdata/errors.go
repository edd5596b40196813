package marketdata

import "fmt"

// NetworkError indicates a transport-level failure before any HTTP
// response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError indicates a non-success HTTP status or an API-reported fault.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// NotFoundError indicates the API responded but carried no data for the
// requested asset.
type NotFoundError struct {
	AssetID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("asset %d not found", e.AssetID)
}

// ParseError indicates a response that decoded but is missing a mandatory
// field or has the wrong shape. Callers must not fall back to zeroed
// defaults for the named field.
type ParseError struct {
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: missing or invalid field %q", e.Field)
}
