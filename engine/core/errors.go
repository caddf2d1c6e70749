package core

import (
	"errors"
)

var (
	ErrAlreadyRunning         = errors.New("game is already running")
	ErrHostClosed             = errors.New("game has been closed")
	ErrDuplicateComponentName = errors.New("a component with the same name is already registered")
	ErrComponentExists        = errors.New("component already added")
	ErrComponentNotFound      = errors.New("component not found")
	ErrInvalidComponent       = errors.New("component must be a non-nil comparable value")
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrDeviceNotInitialized   = errors.New("graphics device not initialized")
)
