package util

// ErrPublic is an error whose message is safe to display to the end user.
// Anything else should be logged and hidden behind a generic message.
type ErrPublic string

func (e ErrPublic) Error() string {
	return string(e)
}
