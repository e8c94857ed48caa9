package common

import "github.com/cockroachdb/errors"

// ExitErr is returned by a state when the user asked to leave the
// application. Compare with errors.Is.
var ExitErr = errors.New("exited")
