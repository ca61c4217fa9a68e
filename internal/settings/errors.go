package settings

import "errors"

var (
	// ErrInvalidThreshold is returned when a threshold outside 0..100 is given.
	ErrInvalidThreshold = errors.New("settings: threshold must be between 0 and 100")

	// ErrNotExcluded is returned when removing an exclusion that does not exist.
	ErrNotExcluded = errors.New("settings: device is not excluded")
)
