package application

import "errors"

var (
	ErrServiceNotStarted = errors.New("service not started")
	ErrServiceStopped    = errors.New("service stopped")
)
