// Package runlock serializes runs. Two concurrent runs would fight over the
// browser session, the pacing clock, and the application database, so a
// second run refuses to start instead.
package runlock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrHeld = errors.New("another run is already active")

// Acquire takes the run lock under dataDir. The returned release func must be
// called when the run ends; the lock also dies with the process.
func Acquire(dataDir string) (release func() error, err error) {
	fl := flock.New(filepath.Join(dataDir, "run.lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("run lock: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return fl.Unlock, nil
}
