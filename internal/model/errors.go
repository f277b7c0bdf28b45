package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrNotConnected   = errors.New("not connected to Steam")
	ErrGameNotRunning = errors.New("game is not running")
	ErrInvalidAppID   = errors.New("invalid app id")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
)
