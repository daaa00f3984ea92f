package view

import (
	"errors"

	"github.com/goliatone/go-bfhl/pkg/client"
)

// User facing messages. They are shown verbatim.
const (
	MsgInvalidJSON = "Invalid JSON format"
	MsgMissingData = `JSON must contain a "data" array`
	MsgMissingFile = "Please upload a file"
	MsgHTTPFailure = "Failed to fetch data from the API"
	MsgFetchError  = "An error occurred while fetching data"

	// MsgUnreadableFile is reported by SubmitPath when the path cannot be read.
	MsgUnreadableFile = "Could not read the selected file"
)

const (
	LabelSubmit     = "Submit"
	LabelSubmitting = "Submitting..."
)

// ErrInFlight is returned by Form.Submit while another submission is pending.
var ErrInFlight = errors.New("view: submission already in flight")

// ValidationError rejects a submission before any network call is made.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return "view: " + e.Message + ": " + e.Err.Error()
	}
	return "view: " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Message maps a submission error onto the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	if client.IsStatus(err) {
		return MsgHTTPFailure
	}
	return MsgFetchError
}
