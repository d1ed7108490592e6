package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var ErrUnavailable = errors.New("clipboard unavailable")

var (
	writeMu sync.Mutex
	ready   bool
)

// Init prepares the system clipboard. Writes fail with ErrUnavailable until it succeeds.
func Init() error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := clipboard.Init(); err != nil {
		ready = false
		return err
	}
	ready = true
	return nil
}

// Write performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func Write(text string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if !ready {
		return ErrUnavailable
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// Writer is the clipboard as a dependency.
type Writer interface {
	Write(text string) error
}

// System writes to the process clipboard.
type System struct{}

func (System) Write(text string) error { return Write(text) }
