package service

import "fmt"

// ValidationError reports bad input (size, extension, missing fields).
// Status carries the HTTP status the handler should answer with
// (400, 413 or 415).
type ValidationError struct {
	Msg    string
	Status int
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports a concurrent active upload session.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError reports an unknown video or session.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// NotReadyError reports an action that requires a completed video.
type NotReadyError struct {
	Msg string
}

func (e *NotReadyError) Error() string { return e.Msg }

// StorageError wraps an object-store failure. Transient failures are
// worth retrying; permanent ones are not.
type StorageError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ProcessingError wraps an inspector or thumbnail failure.
type ProcessingError struct {
	Msg string
	Err error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// TimeoutError reports a processing run that exceeded its wall-clock
// ceiling.
type TimeoutError struct {
	Msg string
}

func (e *TimeoutError) Error() string { return e.Msg }
