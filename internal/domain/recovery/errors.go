package recovery

import "errors"

var (
	ErrRecoveryNotFound = errors.New("recovery not found")
)
