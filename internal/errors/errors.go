package errors

import "fmt"

type Kind string

const (
	InvalidConfig Kind = "invalid_config"
	InputMissing  Kind = "input_missing"
	DecodeFailure Kind = "decode_failure"
	ExternalTool  Kind = "external_tool"
	IOFailure     Kind = "io_failure"
	Internal      Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// KindOf returns the Kind carried by err, or Internal for foreign errors.
func KindOf(err error) Kind {
	appErr, ok := err.(*AppError)
	if !ok {
		return Internal
	}
	return appErr.Kind
}

func UserMessage(err error) string {
	appErr, ok := err.(*AppError)
	if !ok {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case InputMissing:
		return fmt.Sprintf("Input not usable: %s", appErr.Path)
	case DecodeFailure:
		return fmt.Sprintf("RAW decode failed: %s", appErr.Path)
	case ExternalTool:
		return fmt.Sprintf("External encoder failed: %v", appErr.Err)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s", appErr.Path)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
