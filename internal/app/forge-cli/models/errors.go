package models

// ReportedError marks an error that was already shown to the user. It is still returned so
// the command exits with a failure, but it is not printed a second time.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// Reported wraps err in a ReportedError. It returns nil for a nil err.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &ReportedError{Err: err}
}
