package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteBeforeInit(t *testing.T) {
	writeMu.Lock()
	ready = false
	writeMu.Unlock()

	assert.ErrorIs(t, Write("test text"), ErrUnavailable)
	assert.ErrorIs(t, System{}.Write("test text"), ErrUnavailable)
}

func TestWrite(t *testing.T) {
	// Requires clipboard access; only check that it doesn't panic.
	if err := Init(); err != nil {
		t.Skipf("clipboard unavailable in this environment: %v", err)
	}
	if err := Write("test text"); err != nil {
		t.Logf("Failed to write to clipboard: %v", err)
	}
}
