//go:build cgo

package idle

import (
	"os"
	"runtime"
	"time"

	"github.com/go-vgo/robotgo"
)

// NewPointerSource watches the mouse pointer through the native input API.
// On X11 systems a missing DISPLAY makes the source unavailable, since the
// native lookup would crash rather than fail.
func NewPointerSource(interval time.Duration) ActivitySource {
	if !hasDisplay(runtime.GOOS, os.Getenv) {
		return Unavailable()
	}
	return NewPollSource(interval, robotgo.Location)
}

func hasDisplay(goos string, getenv func(string) string) bool {
	switch goos {
	case "darwin", "windows":
		return true
	}
	return getenv("DISPLAY") != ""
}
