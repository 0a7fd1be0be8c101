//go:build !cgo

package idle

import (
	"time"
)

// NewPointerSource needs cgo for the native input API; without it idle
// detection is unavailable.
func NewPointerSource(time.Duration) ActivitySource {
	return Unavailable()
}
