package pkg

import "math/rand"

// NewTraceID returns a 6-digit correlation tag for log lines and response
// envelopes. Best effort only: ids are not unique and never persisted.
func NewTraceID() int {
	return rand.Intn(900000) + 100000
}
