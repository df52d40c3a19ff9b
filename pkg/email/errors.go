package email

import "errors"

var (
	ErrInvalidParams = errors.New("email: invalid send parameters")
	ErrInvalidConfig = errors.New("email: invalid configuration")
	ErrSendFailed    = errors.New("email: failed to send")
)
