package errors

import (
	"fmt"
)

// DuplicateKey creates an error for a preset name that is already taken
func DuplicateKey(name string) *PresetError {
	return New(ErrCodeDuplicateKey, fmt.Sprintf("a preset named '%s' already exists", name)).
		WithDetail("name", name)
}

// EmptyKey creates an error for a blank preset name
func EmptyKey() *PresetError {
	return New(ErrCodeEmptyKey, "preset name must not be empty")
}

// NotFound creates a preset not found error
func NotFound(name string) *PresetError {
	return New(ErrCodeNotFound, fmt.Sprintf("preset '%s' not found", name)).
		WithDetail("name", name)
}

// InvalidShape creates an error for a document that is not a JSON object
func InvalidShape(got string) *PresetError {
	return New(ErrCodeInvalidShape, fmt.Sprintf("expected a JSON object, got %s", got)).
		WithDetail("got", got)
}

// InvalidJSON wraps a parse failure of user supplied text
func InvalidJSON(err error) *PresetError {
	return Wrap(err, ErrCodeInvalidJSON, "text is not valid JSON")
}

// NoSelection creates an error for commands that need a selected preset
func NoSelection() *PresetError {
	return New(ErrCodeNoSelection, "no preset is selected")
}

// NoTarget creates an error for publishing without a target file
func NoTarget() *PresetError {
	return New(ErrCodeNoTarget, "no target file has been set")
}

// ReadFailed wraps a failure to read path
func ReadFailed(path string, err error) *PresetError {
	return Wrap(err, ErrCodeReadFailed, fmt.Sprintf("failed to read %s", path)).
		WithDetail("path", path)
}

// WriteFailed wraps a failure to write one of the internal store files
func WriteFailed(path string, err error) *PresetError {
	return Wrap(err, ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", path)).
		WithDetail("path", path)
}

// TargetWrite wraps a failure to write a user-owned target or export file
func TargetWrite(path string, err error) *PresetError {
	return Wrap(err, ErrCodeTargetWrite, fmt.Sprintf("failed to write target file %s", path)).
		WithDetail("path", path)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *PresetError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *PresetError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}
