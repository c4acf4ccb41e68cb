package notify

import (
	"errors"
	"fmt"
)

// MissingInputError is returned when neither MATTERMOST_MESSAGE nor the message file is available.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing %s file, a previous action should populate it", e.Path)
}

// ParseError is returned when the message file cannot be read or is not a JSON object.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error reading message: %s", e.Err.Error())
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingRequiredFieldError names a setting that resolved to an empty value.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s is required and cannot be empty", e.Field)
}

// InvalidAttachmentPathError is returned when the attachment list is set but holds no usable path.
type InvalidAttachmentPathError struct {
	Value string
}

func (e *InvalidAttachmentPathError) Error() string {
	return fmt.Sprintf("%s is defined but contains no valid paths", EnvAttachmentsPath)
}

// InvalidRecipientError is returned when the recipient of a direct message is missing or malformed.
type InvalidRecipientError struct {
	Reason string
}

func (e *InvalidRecipientError) Error() string {
	return fmt.Sprintf("invalid direct message recipient: %s", e.Reason)
}

var ErrEmptyMessage = errors.New("message text is required (MATTERMOST_MESSAGE or mattermost.json)")
