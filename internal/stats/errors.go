package stats

import "errors"

// ErrInvalidInput reports a degenerate statistical input: zero trials,
// a contingency table with an empty margin, or a rate outside its
// valid range. Callers can match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
