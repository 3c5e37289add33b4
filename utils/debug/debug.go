// Package debug intercepts panics raised while classifying records so a
// single pathological line cannot abort the whole run.
package debug

import (
	"fmt"
)

var (
	PanicError = fmt.Errorf("panic")
)

// PanicErrorMessage carries the recovered panic value, the offending input,
// and the stacktrace captured at recovery.
type PanicErrorMessage struct {
	Msg        interface{}
	Inner      string
	Stacktrace []byte
}

func (e *PanicErrorMessage) Error() string {
	return fmt.Sprintf("error in flow record validation: %s", e.Inner)
}

func (e *PanicErrorMessage) Unwrap() []error {
	return []error{PanicError}
}
