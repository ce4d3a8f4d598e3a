package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// DatabaseError wraps a failed Firestore call with the operation that failed.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// InvalidTrackConfigError reports a track whose type and config disagree.
// Raised when a track is saved, never during aggregation.
type InvalidTrackConfigError struct {
	ErrorMessage
	Field string
}

// InvalidEntryPayloadError reports an entry payload that does not fit its track type.
// Nothing is written when this is returned.
type InvalidEntryPayloadError struct {
	ErrorMessage
	TrackID   string
	TrackType string
}

type InvalidTimezoneError struct {
	ErrorMessage
	TimeZone string
}

// ParticipantLoadFailedError is recorded when one leaderboard participant could not be
// loaded. It is logged and the participant is omitted; it never reaches the caller.
type ParticipantLoadFailedError struct {
	ErrorMessage
	UID string
	Err error
}

func (e *ParticipantLoadFailedError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewInvalidTrackConfigError(field, message string) *InvalidTrackConfigError {
	return &InvalidTrackConfigError{
		ErrorMessage: ErrorMessage{Message: message},
		Field:        field,
	}
}

func NewInvalidEntryPayloadError(trackID, trackType, message string) *InvalidEntryPayloadError {
	return &InvalidEntryPayloadError{
		ErrorMessage: ErrorMessage{Message: message},
		TrackID:      trackID,
		TrackType:    trackType,
	}
}

func NewInvalidTimezoneError(tz string) *InvalidTimezoneError {
	return &InvalidTimezoneError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("unknown time zone %q", tz)},
		TimeZone:     tz,
	}
}

func NewParticipantLoadFailedError(uid string, err error) *ParticipantLoadFailedError {
	return &ParticipantLoadFailedError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("failed to load participant %s", uid)},
		UID:          uid,
		Err:          err,
	}
}
