package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a bundle or audio file that cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Playback Errors.

	// ErrPlaybackRejected indicates the device refused to start playback.
	// The session stays paused; callers decide whether to prompt the user.
	ErrPlaybackRejected = errors.New("playback rejected")

	// ErrDeviceFailure indicates the device reported a decode or I/O failure.
	ErrDeviceFailure = errors.New("playback device failure")

	// ErrSessionClosed indicates a command was issued after Close.
	ErrSessionClosed = errors.New("session closed")

	// ErrNoSession indicates no playback session has been opened yet.
	ErrNoSession = errors.New("no playback session open")
)
