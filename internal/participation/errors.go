package participation

import "errors"

// Lifecycle errors
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrStudentNotFound = errors.New("student not found")

	ErrCollegeMismatch = errors.New("student belongs to a different college")
	ErrEventCancelled  = errors.New("event is cancelled")
	ErrNotRegistered   = errors.New("student is not registered for this event")
	ErrNotAttended     = errors.New("student did not attend this event")

	ErrAlreadyRegistered = errors.New("student already registered for this event")
	ErrAlreadyCheckedIn  = errors.New("attendance already recorded for this event")
	ErrFeedbackExists    = errors.New("feedback already submitted for this event")

	ErrEventFull = errors.New("event is at full capacity")

	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidCheckInMethod = errors.New("invalid check-in method")
)

// IsNotFound reports whether the error means a referenced entity is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrStudentNotFound)
}

// IsForbidden reports whether the error is a business-rule precondition
// violation: wrong college, cancelled event, or a skipped lifecycle step.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrCollegeMismatch) ||
		errors.Is(err, ErrEventCancelled) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrNotAttended)
}

// IsConflict reports whether the error is a duplicate write attempt.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrFeedbackExists)
}

// IsCapacityExceeded reports whether the error means the event is full.
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrEventFull)
}

// IsValidation reports whether the error is malformed input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidCheckInMethod)
}
