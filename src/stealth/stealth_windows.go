//go:build windows

package stealth

import (
	"log/slog"

	"golang.org/x/sys/windows"
)

const (
	swHide = 0

	gwlExStyle = ^uintptr(19) // -20

	swpNoSize       = 0x0001
	swpNoMove       = 0x0002
	swpNoActivate   = 0x0010
	swpFrameChanged = 0x0020

	lwaAlpha = 0x00000002
)

var hwndTopmost = ^uintptr(0) // -1

var (
	kernel32                       = windows.NewLazySystemDLL("kernel32.dll")
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procGetConsoleWindow           = kernel32.NewProc("GetConsoleWindow")
	procShowWindow                 = user32.NewProc("ShowWindow")
	procGetWindowLongPtrW          = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32.NewProc("SetWindowLongPtrW")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procGetForegroundWindow        = user32.NewProc("GetForegroundWindow")
)

type windowsHooks struct{}

func platformHooks() Hooks { return windowsHooks{} }

func (windowsHooks) HideConsole() {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return
	}
	procShowWindow.Call(hwnd, swHide)
}

func (windowsHooks) HideFromTaskbar(hwnd uintptr) {
	if hwnd == 0 {
		return
	}
	if err := setExStyle(hwnd, toolWindowStyle); err != nil {
		slog.Debug("Stealth: hide from taskbar failed", "error", err)
	}
}

func (windowsHooks) Withdraw(hwnd uintptr) {
	if hwnd == 0 {
		return
	}
	procShowWindow.Call(hwnd, swHide)
}

func (windowsHooks) PinOverlay(hwnd uintptr, alpha float64) {
	if hwnd == 0 {
		return
	}
	if err := setExStyle(hwnd, overlayStyle); err != nil {
		slog.Debug("Stealth: overlay style failed", "error", err)
	}
	if ret, _, err := procSetLayeredWindowAttributes.Call(hwnd, 0, uintptr(alphaByte(alpha)), lwaAlpha); ret == 0 {
		slog.Debug("Stealth: SetLayeredWindowAttributes failed", "error", err)
	}
	flags := uintptr(swpNoMove | swpNoSize | swpNoActivate | swpFrameChanged)
	if ret, _, err := procSetWindowPos.Call(hwnd, hwndTopmost, 0, 0, 0, 0, flags); ret == 0 {
		slog.Debug("Stealth: SetWindowPos(TOPMOST) failed", "error", err)
	}
}

func (windowsHooks) ForegroundWindow() uintptr {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return hwnd
}

func setExStyle(hwnd uintptr, update func(uintptr) uintptr) error {
	style, _, err := procGetWindowLongPtrW.Call(hwnd, gwlExStyle)
	if style == 0 && err != windows.ERROR_SUCCESS {
		return err
	}
	procSetWindowLongPtrW.Call(hwnd, gwlExStyle, update(style))
	return nil
}
