package honeypot

import "fmt"

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("reply generator panicked: %v", e.value)
}
