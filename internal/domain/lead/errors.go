package lead

import "errors"

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrQueueClosed  = errors.New("lead queue closed")
)
