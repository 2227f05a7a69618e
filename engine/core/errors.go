package core

import (
	"errors"
)

var (
	ErrEventSystemClosed = errors.New("event system is not initialized")
	ErrWindowClosed      = errors.New("window closed")
	ErrUnknown           = errors.New("unknown")
)
