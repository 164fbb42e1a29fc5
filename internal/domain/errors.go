package domain

import "errors"

var (
	// ErrNetwork marks a rejected request or a non-2xx API response.
	ErrNetwork = errors.New("network failure")

	// ErrMalformedResponse marks an API body that is not JSON or does not
	// have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNoData is returned when an export or preview is requested for an
	// empty or never-loaded dataset.
	ErrNoData = errors.New("no data available")

	// ErrInvalidSelection is returned for an unrecognized category selection.
	ErrInvalidSelection = errors.New("invalid data type selected")
)

// Notice turns a user-interaction error into the message shown to the user.
// It returns the empty string for nil.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSelection):
		return "Invalid data type selected"
	case errors.Is(err, ErrNoData):
		return "No data available. Please refresh the data first."
	default:
		return err.Error()
	}
}
