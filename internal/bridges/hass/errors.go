package hass

import "errors"

var (
	// ErrAuthFailed is returned when the access token is rejected.
	ErrAuthFailed = errors.New("hass: authentication failed")

	// ErrNotConnected is returned for commands issued while disconnected.
	ErrNotConnected = errors.New("hass: not connected")

	// ErrRequestTimeout is returned when a command result does not arrive
	// within the configured request timeout.
	ErrRequestTimeout = errors.New("hass: request timed out")

	// ErrCommandFailed is returned when the server reports a failed command.
	ErrCommandFailed = errors.New("hass: command failed")
)
