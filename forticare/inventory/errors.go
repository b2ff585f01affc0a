package inventory

import "errors"

// ErrNotFound is returned by Get when no asset has the requested serial.
var ErrNotFound = errors.New("asset not found")
