// Package stealth keeps the program out of the way on screen: the console is
// hidden after startup, and the overlay never shows up in the taskbar.
package stealth

import (
	"context"
	"log"
	"time"
)

// Extended window styles and layered-window constants.
const (
	wsExToolWindow = 0x00000080
	wsExAppWindow  = 0x00040000
	wsExLayered    = 0x00080000

	// OverlayAlpha is the overlay opacity.
	OverlayAlpha = 0.99
)

// Hooks are the platform calls used to stay unobtrusive. Window handles are
// native handles; zero means "no window" and is ignored.
type Hooks interface {
	HideConsole()
	HideFromTaskbar(hwnd uintptr)
	Withdraw(hwnd uintptr)
	PinOverlay(hwnd uintptr, alpha float64)
	ForegroundWindow() uintptr
}

// New returns the platform hooks, or a no-op set when disabled.
func New(enabled bool) Hooks {
	if !enabled {
		return Noop{}
	}
	return platformHooks()
}

// Noop does nothing. It is used when stealth is disabled and on platforms
// without native support.
type Noop struct{}

func (Noop) HideConsole()                {}
func (Noop) HideFromTaskbar(uintptr)     {}
func (Noop) Withdraw(uintptr)            {}
func (Noop) PinOverlay(uintptr, float64) {}
func (Noop) ForegroundWindow() uintptr   { return 0 }

// HideLaunchWindow detaches the window that was focused at launch from the
// taskbar and hides it.
func HideLaunchWindow(h Hooks) {
	hwnd := h.ForegroundWindow()
	if hwnd == 0 {
		return
	}
	h.HideFromTaskbar(hwnd)
	h.Withdraw(hwnd)
}

// ScheduleConsoleHide hides the console after delay unless ctx ends first.
func ScheduleConsoleHide(ctx context.Context, h Hooks, delay time.Duration) {
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		log.Printf("Stealth: hiding console window")
		h.HideConsole()
	}()
}

// toolWindowStyle returns an extended style that keeps a window off the
// taskbar and out of Alt+Tab.
func toolWindowStyle(style uintptr) uintptr {
	return (style | wsExToolWindow) &^ wsExAppWindow
}

// overlayStyle adds the layered bit to a tool window style so the overlay can
// be made translucent.
func overlayStyle(style uintptr) uintptr {
	return toolWindowStyle(style) | wsExLayered
}

// alphaByte converts an opacity in [0,1] to the 0-255 range.
func alphaByte(alpha float64) byte {
	switch {
	case alpha <= 0:
		return 0
	case alpha >= 1:
		return 255
	}
	return byte(alpha*255 + 0.5)
}
