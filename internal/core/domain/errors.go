package domain

import "errors"

var (
	ErrDuplicateParticipant  = errors.New("participant already registered")
	ErrUnknownParticipant    = errors.New("participant not registered")
	ErrNotOwner              = errors.New("only the site owner can perform this action")
	ErrSessionAlreadyOpen    = errors.New("a session is already open")
	ErrNoActiveSession       = errors.New("no active session")
	ErrDuplicateRegistration = errors.New("participant already registered for the current session")
	ErrInvalidName           = errors.New("name must not be empty")
	ErrLaunchNotFound        = errors.New("launch not found")

	// Internal invariant violations, never caused by a well-formed action.
	ErrArithmeticOverflow = errors.New("arithmetic overflow in launch simulation")
	ErrBalanceOverflow    = errors.New("participant balance overflow")
)
