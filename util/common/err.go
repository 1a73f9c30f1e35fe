// Package common holds small helpers shared across userdesk packages.
package common

import (
	"errors"

	"github.com/userdesk/userdesk/logger"
)

// Combine joins the non-nil errors, returning nil when there are none.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

// Recover stops a panic in the calling goroutine and logs it with msg.
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
