package common

// UserError is an error whose Error() text is safe to show to the user.
//
// Kind is one of the sentinels from this package, Cause is the underlying
// error (may be nil). errors.Is matches both.
type UserError struct {
	Kind    error
	Message string
	Cause   error
}

// NewUserError builds a UserError of the given kind.
func NewUserError(kind error, message string, cause error) *UserError {
	return &UserError{Kind: kind, Message: message, Cause: cause}
}

// Validation is shorthand for a local validation failure.
func Validation(message string) *UserError {
	return &UserError{Kind: ErrValidation, Message: message}
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
