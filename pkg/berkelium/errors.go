package berkelium

import "errors"

var (
	ErrNotInitialized       = errors.New("berkelium: library not initialized")
	ErrClosed               = errors.New("berkelium: object closed")
	ErrInvalidHomeDirectory = errors.New("berkelium: invalid home directory")
	ErrNativeUnavailable    = errors.New("berkelium: native engine unavailable")
	ErrCreateFailed         = errors.New("berkelium: engine refused to create object")
	ErrNavigationRejected   = errors.New("berkelium: navigation rejected")
)
