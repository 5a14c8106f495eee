package cli

import "errors"

var (
	// ErrNotSignedIn indicates a command needs a stored session.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrAborted indicates the user declined a confirmation.
	ErrAborted = errors.New("aborted")
)
